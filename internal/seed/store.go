// Package seed owns the relational pool of candidate identities. Rows are
// created once per session, read (never removed) by scenarios, and mutated
// in place to record server-assigned ids and tokens. An in-memory allocator
// hands out rows exclusively so two scenarios never share a candidate, and
// rows whose remote account was deleted are marked consumed and never
// handed out again.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/lucaspdo/notes-harness/internal/errs"
	"github.com/lucaspdo/notes-harness/internal/fake"
	"github.com/lucaspdo/notes-harness/internal/obs"
)

var log = obs.Pkg("seed")

// seedRetries bounds regeneration attempts when a generated email collides
// with one already in the pool.
const seedRetries = 3

// Row is one candidate identity. String fields mirror the TEXT columns;
// empty means the column is still NULL (id and token are assigned by the
// remote service, note_* echo fields are filled after note creation).
type Row struct {
	Index    int64
	ID       string
	Name     string
	Email    string
	Password string
	Company  string
	Phone    string
	Token    string

	NoteID          string
	NoteTitle       string
	NoteDescription string
	NoteCompleted   string
	NoteCreatedAt   string
	NoteUpdatedAt   string
	NoteCategory    string
}

// Fields is a partial row update. Nil members are left untouched.
type Fields struct {
	ID    *string
	Token *string

	NoteID          *string
	NoteTitle       *string
	NoteDescription *string
	NoteCompleted   *string
	NoteCreatedAt   *string
	NoteUpdatedAt   *string
	NoteCategory    *string
}

// String returns a pointer to s, for building Fields literals.
func String(s string) *string {
	return &s
}

// Store is the session-scoped seed pool. One Store shares one database
// connection across all scenarios; access is sequential by design.
type Store struct {
	db *sql.DB

	mu       sync.Mutex
	reserved map[int64]bool
	consumed map[int64]bool
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errs.New(errs.InvalidArgument, "seed database path must not be empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "open seed database", err)
	}
	// SQLite is single-writer and the suite is sequential.
	db.SetMaxOpenConns(1)
	return &Store{
		db:       db,
		reserved: make(map[int64]bool),
		consumed: make(map[int64]bool),
	}, nil
}

// Initialize creates the backing table if absent. Safe to call every session.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createUsers); err != nil {
		return errs.Wrap(errs.Unavailable, "create seed table", err)
	}
	return nil
}

// Seed inserts n synthetic rows drawn from gen. Email uniqueness is
// enforced by the schema; a collision is retried with a fresh identity up
// to seedRetries times before the session aborts with a conflict error.
func (s *Store) Seed(ctx context.Context, n int, gen fake.Generator) error {
	for i := 0; i < n; i++ {
		if err := s.insertWithRetry(ctx, gen); err != nil {
			return err
		}
	}
	log.Info("seed pool populated", "rows", n)
	return nil
}

func (s *Store) insertWithRetry(ctx context.Context, gen fake.Generator) error {
	var lastErr error
	for attempt := 0; attempt < seedRetries; attempt++ {
		id := gen.Identity()
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO users (name, email, password, company, phone, note_title, note_description, note_category)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id.Name, id.Email, id.Password, id.Company, id.Phone,
			id.NoteTitle, id.NoteDescription, id.NoteCategory,
		)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return errs.Wrap(errs.Unavailable, "insert seed row", err)
		}
		lastErr = err
		log.Warn("seed email collision, regenerating", "email", id.Email, "attempt", attempt+1)
	}
	return errs.Wrap(errs.Conflict, "email collision persisted across retries", lastErr)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// PickRandom selects one row uniformly at random from the whole pool. It
// does not reserve the row; callers that need exclusive ownership use
// Checkout.
func (s *Store) PickRandom(ctx context.Context) (Row, error) {
	row := s.db.QueryRowContext(ctx, selectRow+` ORDER BY RANDOM() LIMIT 1`)
	r, err := scanRow(row)
	if err == sql.ErrNoRows {
		return Row{}, errs.New(errs.NotFound, "seed pool is empty")
	}
	if err != nil {
		return Row{}, errs.Wrap(errs.Unavailable, "pick random seed row", err)
	}
	return r, nil
}

// Checkout picks a random row that is neither reserved nor consumed and
// reserves it for the calling scenario. Release returns it to the pool;
// Consume retires it permanently.
func (s *Store) Checkout(ctx context.Context) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, selectRow+` ORDER BY RANDOM()`)
	if err != nil {
		return Row{}, errs.Wrap(errs.Unavailable, "query seed rows", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanRows(rows)
		if err != nil {
			return Row{}, errs.Wrap(errs.Unavailable, "scan seed row", err)
		}
		if s.reserved[r.Index] || s.consumed[r.Index] {
			continue
		}
		s.reserved[r.Index] = true
		return r, nil
	}
	if err := rows.Err(); err != nil {
		return Row{}, errs.Wrap(errs.Unavailable, "iterate seed rows", err)
	}
	return Row{}, errs.New(errs.FailedPrecondition, "no free seed rows left in the pool")
}

// Release returns a reserved row to the free pool.
func (s *Store) Release(index int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reserved, index)
}

// Consume retires a row permanently. Called after the remote account for
// the row is deleted, since the stored id/token pairing is then invalid.
func (s *Store) Consume(index int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reserved, index)
	s.consumed[index] = true
}

// Update patches the named columns for the row with that index.
func (s *Store) Update(ctx context.Context, index int64, fields Fields) error {
	assignments, args := fields.assignments()
	if len(assignments) == 0 {
		return errs.New(errs.InvalidArgument, "no fields to update")
	}
	args = append(args, index)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE users SET %s WHERE "index" = ?`, strings.Join(assignments, ", ")),
		args...,
	)
	if err != nil {
		return errs.Wrap(errs.Unavailable, "update seed row", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errs.Wrap(errs.Unavailable, "update seed row", err)
	}
	if affected == 0 {
		return errs.New(errs.NotFound, fmt.Sprintf("no seed row with index %d", index))
	}
	return nil
}

// Read fetches the full row with that index.
func (s *Store) Read(ctx context.Context, index int64) (Row, error) {
	row := s.db.QueryRowContext(ctx, selectRow+` WHERE "index" = ?`, index)
	r, err := scanRow(row)
	if err == sql.ErrNoRows {
		return Row{}, errs.New(errs.NotFound, fmt.Sprintf("no seed row with index %d", index))
	}
	if err != nil {
		return Row{}, errs.Wrap(errs.Unavailable, "read seed row", err)
	}
	return r, nil
}

// Count returns the number of rows in the pool.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, errs.Wrap(errs.Unavailable, "count seed rows", err)
	}
	return n, nil
}

// Teardown drops the backing table. Runs once at session end regardless of
// individual scenario outcomes.
func (s *Store) Teardown(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, dropUsers); err != nil {
		return errs.Wrap(errs.Unavailable, "drop seed table", err)
	}
	s.mu.Lock()
	s.reserved = make(map[int64]bool)
	s.consumed = make(map[int64]bool)
	s.mu.Unlock()
	log.Info("seed table dropped")
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const selectRow = `SELECT "index", id, name, email, password, company, phone, token,
    note_id, note_title, note_description, note_completed, note_created_at, note_updated_at, note_category
    FROM users`

type scannable interface {
	Scan(dest ...any) error
}

func scanRow(row *sql.Row) (Row, error) {
	return scanInto(row)
}

func scanRows(rows *sql.Rows) (Row, error) {
	return scanInto(rows)
}

func scanInto(src scannable) (Row, error) {
	var r Row
	var id, tok, noteID, noteCompleted, noteCreatedAt, noteUpdatedAt sql.NullString
	err := src.Scan(
		&r.Index, &id, &r.Name, &r.Email, &r.Password, &r.Company, &r.Phone, &tok,
		&noteID, &r.NoteTitle, &r.NoteDescription, &noteCompleted,
		&noteCreatedAt, &noteUpdatedAt, &r.NoteCategory,
	)
	if err != nil {
		return Row{}, err
	}
	r.ID = id.String
	r.Token = tok.String
	r.NoteID = noteID.String
	r.NoteCompleted = noteCompleted.String
	r.NoteCreatedAt = noteCreatedAt.String
	r.NoteUpdatedAt = noteUpdatedAt.String
	return r, nil
}

func (f Fields) assignments() ([]string, []any) {
	var assignments []string
	var args []any
	add := func(column string, value *string) {
		if value != nil {
			assignments = append(assignments, column+" = ?")
			args = append(args, *value)
		}
	}
	add("id", f.ID)
	add("token", f.Token)
	add("note_id", f.NoteID)
	add("note_title", f.NoteTitle)
	add("note_description", f.NoteDescription)
	add("note_completed", f.NoteCompleted)
	add("note_created_at", f.NoteCreatedAt)
	add("note_updated_at", f.NoteUpdatedAt)
	add("note_category", f.NoteCategory)
	return assignments, args
}

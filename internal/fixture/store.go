// Package fixture persists per-scenario state keyed by correlation token.
// Each scenario writes one JSON file holding the pointer back into the seed
// table plus any response data captured so far. Records live for exactly one
// scenario: created after registration, overwritten at each stage, removed
// during teardown.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucaspdo/notes-harness/internal/errs"
	"github.com/lucaspdo/notes-harness/internal/obs"
)

var log = obs.Pkg("fixture")

// Record is the typed payload stored under one correlation token.
// UserIndex points back into the seed table; the remaining fields are the
// denormalized snapshot used by flows that skip the database round-trip.
type Record struct {
	UserIndex int64 `json:"user_index"`

	UserID       string `json:"user_id,omitempty"`
	UserName     string `json:"user_name,omitempty"`
	UserEmail    string `json:"user_email,omitempty"`
	UserPassword string `json:"user_password,omitempty"`
	UserToken    string `json:"user_token,omitempty"`

	NoteID          string `json:"note_id,omitempty"`
	NoteCategory    string `json:"note_category,omitempty"`
	NoteTitle       string `json:"note_title,omitempty"`
	NoteDescription string `json:"note_description,omitempty"`
	NoteCompleted   bool   `json:"note_completed,omitempty"`
	NoteCreatedAt   string `json:"note_created_at,omitempty"`
	NoteUpdatedAt   string `json:"note_updated_at,omitempty"`
}

// Store keeps one JSON file per live correlation token under a session
// directory. A token maps to at most one record at any time.
type Store struct {
	dir string
}

// NewStore creates the session fixture directory if needed and returns a
// store rooted there.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errs.New(errs.InvalidArgument, "fixture directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.Internal, "create fixture directory", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory backing this store.
func (s *Store) Dir() string {
	return s.dir
}

// Write serializes record under token, overwriting any existing record.
func (s *Store) Write(tok string, record Record) error {
	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return errs.Wrap(errs.Internal, "encode fixture record", err)
	}
	if err := os.WriteFile(s.path(tok), data, 0o644); err != nil {
		return errs.Wrap(errs.Internal, "write fixture record", err)
	}
	log.Debug("fixture record written", "token", tok, "user_index", record.UserIndex)
	return nil
}

// Read returns the record stored under token. A missing record means the
// scenario ordering was violated; it is reported as not_found and is not
// recoverable.
func (s *Store) Read(tok string) (Record, error) {
	data, err := os.ReadFile(s.path(tok))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, errs.New(errs.NotFound, fmt.Sprintf("no fixture record for token %s", tok))
		}
		return Record{}, errs.Wrap(errs.Internal, "read fixture record", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, errs.Wrap(errs.Internal, "decode fixture record", err)
	}
	return record, nil
}

// Delete removes the record stored under token. Deleting a token that has
// no record is a not_found error; direct callers must treat that as a
// scenario-ordering bug.
func (s *Store) Delete(tok string) error {
	err := os.Remove(s.path(tok))
	if err != nil {
		if os.IsNotExist(err) {
			return errs.New(errs.NotFound, fmt.Sprintf("no fixture record for token %s", tok))
		}
		return errs.Wrap(errs.Internal, "delete fixture record", err)
	}
	log.Debug("fixture record deleted", "token", tok)
	return nil
}

// Discard removes the record if present. Teardown paths call this so that a
// scenario body that already deleted its record does not fail cleanup.
func (s *Store) Discard(tok string) {
	if err := s.Delete(tok); err != nil && !errs.IsNotFound(err) {
		log.Warn("fixture discard failed", "token", tok, "err", err)
	}
}

func (s *Store) path(tok string) string {
	return filepath.Join(s.dir, "file-"+tok+".json")
}

package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lucaspdo/notes-harness/internal/errs"
	"github.com/lucaspdo/notes-harness/internal/token"
	"pgregory.net/rapid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "fixtures"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestWriteReadRoundtrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	want := Record{
		UserIndex: 17,
		UserID:    "u-123",
		UserEmail: "someone@example.com",
		UserToken: "tok-abc",
		NoteID:    "n-9",
	}
	tok := token.New()
	if err := store.Write(tok, want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := store.Read(tok)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != want {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", got, want)
	}
}

func TestWriteOverwritesExistingRecord(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	tok := token.New()

	if err := store.Write(tok, Record{UserIndex: 1}); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := store.Write(tok, Record{UserIndex: 2, NoteID: "n-1"}); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	got, err := store.Read(tok)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.UserIndex != 2 || got.NoteID != "n-1" {
		t.Fatalf("overwrite lost data: %+v", got)
	}
}

func TestReadMissingRecordIsNotFound(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	_, err := store.Read(token.New())
	if !errs.IsNotFound(err) {
		t.Fatalf("Read missing: got %v, want not_found", err)
	}
}

func TestDeleteTwiceSecondIsNotFound(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	tok := token.New()
	if err := store.Write(tok, Record{UserIndex: 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.Delete(tok); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := store.Delete(tok); !errs.IsNotFound(err) {
		t.Fatalf("second Delete: got %v, want not_found", err)
	}
}

func TestDeleteDoesNotTouchOtherTokens(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	tokA, tokB := token.New(), token.New()

	if err := store.Write(tokA, Record{UserIndex: 1}); err != nil {
		t.Fatalf("Write A: %v", err)
	}
	if err := store.Write(tokB, Record{UserIndex: 2}); err != nil {
		t.Fatalf("Write B: %v", err)
	}
	if err := store.Delete(tokA); err != nil {
		t.Fatalf("Delete A: %v", err)
	}
	store.Discard(tokA) // second removal tolerated by teardown wrapper

	got, err := store.Read(tokB)
	if err != nil {
		t.Fatalf("Read B after deleting A: %v", err)
	}
	if got.UserIndex != 2 {
		t.Fatalf("record B corrupted: %+v", got)
	}
}

func TestDiscardToleratesMissingRecord(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	store.Discard(token.New()) // must not panic or fail
}

func TestNewStoreRejectsEmptyDir(t *testing.T) {
	t.Parallel()
	if _, err := NewStore(""); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestFilesAreNamespacedByToken(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	tok := token.New()
	if err := store.Write(tok, Record{UserIndex: 5}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "file-"+tok+".json")); err != nil {
		t.Fatalf("expected token-derived file name: %v", err)
	}
}

func testRecordRoundtripProperty(t *rapid.T) {
	dir := os.TempDir()
	store, err := NewStore(filepath.Join(dir, "fixture-prop-"+token.New()))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer os.RemoveAll(store.Dir())

	record := Record{
		UserIndex:       int64(rapid.IntRange(1, 250).Draw(t, "index")),
		UserID:          rapid.StringMatching(`[a-z0-9]{0,24}`).Draw(t, "id"),
		UserName:        rapid.StringMatching(`[A-Za-z ]{0,30}`).Draw(t, "name"),
		UserEmail:       rapid.StringMatching(`[a-z]{1,10}@[a-z]{1,10}\.com`).Draw(t, "email"),
		UserPassword:    rapid.StringMatching(`[A-Za-z0-9]{0,20}`).Draw(t, "password"),
		UserToken:       rapid.StringMatching(`[a-f0-9]{0,32}`).Draw(t, "token"),
		NoteID:          rapid.StringMatching(`[a-z0-9]{0,24}`).Draw(t, "note_id"),
		NoteCategory:    rapid.SampledFrom([]string{"", "Home", "Personal", "Work"}).Draw(t, "category"),
		NoteTitle:       rapid.StringMatching(`[A-Za-z0-9 .]{0,40}`).Draw(t, "title"),
		NoteDescription: rapid.StringMatching(`[A-Za-z0-9 .]{0,60}`).Draw(t, "description"),
		NoteCompleted:   rapid.Bool().Draw(t, "completed"),
	}

	tok := token.New()
	if err := store.Write(tok, record); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := store.Read(tok)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != record {
		t.Fatalf("roundtrip mismatch:\ngot  %+v\nwant %+v", got, record)
	}
	if err := store.Delete(tok); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestRecordRoundtripProperty(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testRecordRoundtripProperty)
}

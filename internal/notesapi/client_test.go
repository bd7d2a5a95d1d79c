package notesapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/lucaspdo/notes-harness/internal/notesapi"
	"github.com/lucaspdo/notes-harness/internal/notestest"
)

func newTestClient(t *testing.T) *notesapi.Client {
	t.Helper()
	srv := notestest.New()
	t.Cleanup(srv.Close)

	client, err := notesapi.New(notesapi.Config{BaseURL: srv.URL()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func registerAndLogin(t *testing.T, client *notesapi.Client, email string) (notesapi.Account, string) {
	t.Helper()
	ctx := context.Background()

	reg, err := client.Register(ctx, notesapi.RegisterParams{
		Name:     "Carla Dias",
		Email:    email,
		Password: "Abcdefgh1234",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.StatusCode != http.StatusCreated || reg.Message != notesapi.MsgUserCreated {
		t.Fatalf("register envelope: %d %q", reg.StatusCode, reg.Message)
	}

	login, err := client.Login(ctx, email, "Abcdefgh1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.StatusCode != http.StatusOK || login.Message != notesapi.MsgLoginSuccess {
		t.Fatalf("login envelope: %d %q", login.StatusCode, login.Message)
	}
	acct, err := login.Account()
	if err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if acct.Token == "" {
		t.Fatal("login returned no token")
	}
	return acct, acct.Token
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)

	acct, _ := registerAndLogin(t, client, "carla.dias1@cedar.example.com")
	if acct.Email != "carla.dias1@cedar.example.com" || acct.Name != "Carla Dias" {
		t.Fatalf("login echoed wrong identity: %+v", acct)
	}
	if acct.ID == "" {
		t.Fatal("login returned no account id")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)
	ctx := context.Background()

	params := notesapi.RegisterParams{
		Name: "Dup", Email: "dup@apex.example.com", Password: "Abcdefgh1234",
	}
	if _, err := client.Register(ctx, params); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	resp, err := client.Register(ctx, params)
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if resp.StatusCode != http.StatusConflict || resp.Success {
		t.Fatalf("duplicate register envelope: %d success=%v", resp.StatusCode, resp.Success)
	}
	if resp.Message != notestest.MsgDuplicateEmail {
		t.Fatalf("duplicate register message: %q", resp.Message)
	}
}

func TestLoginBadPasswordRejected(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)
	ctx := context.Background()

	registerAndLogin(t, client, "bad.pass@delta.example.com")
	resp, err := client.Login(ctx, "bad.pass@delta.example.com", "WrongPass123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized || resp.Success {
		t.Fatalf("bad login envelope: %d success=%v", resp.StatusCode, resp.Success)
	}
}

func TestProfileReadAndUpdate(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)
	ctx := context.Background()
	_, token := registerAndLogin(t, client, "profile@granite.example.com")

	read, err := client.Profile(ctx, token)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if read.Message != notesapi.MsgProfileSuccess {
		t.Fatalf("profile message: %q", read.Message)
	}

	updated, err := client.UpdateProfile(ctx, token, notesapi.ProfileParams{
		Name: "Carla Dias", Phone: "119999888877", Company: "Granite Labs",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Message != notesapi.MsgProfileUpdated {
		t.Fatalf("update message: %q", updated.Message)
	}
	acct, err := updated.Account()
	if err != nil {
		t.Fatalf("decode updated profile: %v", err)
	}
	if acct.Phone != "119999888877" || acct.Company != "Granite Labs" {
		t.Fatalf("profile fields not persisted: %+v", acct)
	}
}

func TestChangePasswordRotatesCredential(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)
	ctx := context.Background()
	_, token := registerAndLogin(t, client, "rotate@summit.example.com")

	resp, err := client.ChangePassword(ctx, token, "Abcdefgh1234", "Zyxwvuts9876")
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if resp.Message != notesapi.MsgPasswordUpdated {
		t.Fatalf("change-password message: %q", resp.Message)
	}

	relogin, err := client.Login(ctx, "rotate@summit.example.com", "Zyxwvuts9876")
	if err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
	if !relogin.Success {
		t.Fatalf("new password rejected: %q", relogin.Message)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)
	ctx := context.Background()
	_, token := registerAndLogin(t, client, "logout@harbor.example.com")

	out, err := client.Logout(ctx, token)
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if out.Message != notesapi.MsgLogoutSuccess {
		t.Fatalf("logout message: %q", out.Message)
	}

	after, err := client.Profile(ctx, token)
	if err != nil {
		t.Fatalf("Profile after logout: %v", err)
	}
	if after.StatusCode != http.StatusUnauthorized || after.Message != notesapi.MsgInvalidToken {
		t.Fatalf("stale token envelope: %d %q", after.StatusCode, after.Message)
	}
}

func TestDeleteAccountRemovesEverything(t *testing.T) {
	t.Parallel()
	srv := notestest.New()
	t.Cleanup(srv.Close)
	client, err := notesapi.New(notesapi.Config{BaseURL: srv.URL()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	_, token := registerAndLogin(t, client, "gone@redwood.example.com")

	resp, err := client.DeleteAccount(ctx, token)
	if err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if resp.Message != notesapi.MsgAccountDeleted {
		t.Fatalf("delete-account message: %q", resp.Message)
	}
	if srv.AccountCount() != 0 {
		t.Fatalf("account survived deletion: %d left", srv.AccountCount())
	}
}

func TestNoteLifecycle(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)
	ctx := context.Background()
	acct, token := registerAndLogin(t, client, "notes@keystone.example.com")

	created, err := client.CreateNote(ctx, token, notesapi.NoteParams{
		Title: "Weekly review.", Description: "Draft budget report.", Category: "Work",
	})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if created.Message != notesapi.MsgNoteCreated {
		t.Fatalf("create message: %q", created.Message)
	}
	n, err := created.Note()
	if err != nil {
		t.Fatalf("decode created note: %v", err)
	}
	if n.Completed {
		t.Fatal("fresh note already completed")
	}
	if n.UserID != acct.ID {
		t.Fatalf("note owner mismatch: %s vs %s", n.UserID, acct.ID)
	}
	if n.CreatedAt == "" || n.CreatedAt != n.UpdatedAt {
		t.Fatalf("fresh note timestamps: created=%q updated=%q", n.CreatedAt, n.UpdatedAt)
	}

	fetched, err := client.Note(ctx, token, n.ID)
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	got, err := fetched.Note()
	if err != nil {
		t.Fatalf("decode fetched note: %v", err)
	}
	if got != n {
		t.Fatalf("get-one mismatch: %+v vs %+v", got, n)
	}

	patched, err := client.SetNoteCompleted(ctx, token, n.ID, "true")
	if err != nil {
		t.Fatalf("SetNoteCompleted: %v", err)
	}
	pn, err := patched.Note()
	if err != nil {
		t.Fatalf("decode patched note: %v", err)
	}
	if !pn.Completed {
		t.Fatal("patch did not set completed")
	}

	updated, err := client.UpdateNote(ctx, token, n.ID, notesapi.NoteParams{
		Title: "Morning errand.", Description: "Grocery market.", Category: "Home",
		Completed: "false",
	})
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	un, err := updated.Note()
	if err != nil {
		t.Fatalf("decode updated note: %v", err)
	}
	if un.Category != "Home" || un.Completed || un.Title != "Morning errand." {
		t.Fatalf("full update not applied: %+v", un)
	}

	deleted, err := client.DeleteNote(ctx, token, n.ID)
	if err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if deleted.Message != notesapi.MsgNoteDeleted {
		t.Fatalf("delete message: %q", deleted.Message)
	}

	missing, err := client.Note(ctx, token, n.ID)
	if err != nil {
		t.Fatalf("Note after delete: %v", err)
	}
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted note still served: %d", missing.StatusCode)
	}
}

func TestListNotesNewestFirst(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)
	ctx := context.Background()
	_, token := registerAndLogin(t, client, "list@tidewater.example.com")

	titles := []string{"First note.", "Second note.", "Third note."}
	for _, title := range titles {
		if _, err := client.CreateNote(ctx, token, notesapi.NoteParams{
			Title: title, Description: "Body.", Category: "Personal",
		}); err != nil {
			t.Fatalf("CreateNote %q: %v", title, err)
		}
	}

	listed, err := client.Notes(ctx, token)
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	if listed.Message != notesapi.MsgNotesRetrieved {
		t.Fatalf("list message: %q", listed.Message)
	}
	notes, err := listed.Notes()
	if err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(notes) != len(titles) {
		t.Fatalf("list length = %d, want %d", len(notes), len(titles))
	}
	for _, n := range notes {
		if n.UpdatedAt < notes[len(notes)-1].UpdatedAt {
			t.Fatalf("list not newest-first: %+v", notes)
		}
	}
}

func TestCreateNoteBadCategoryRejected(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)
	ctx := context.Background()
	_, token := registerAndLogin(t, client, "badcat@borealis.example.com")

	resp, err := client.CreateNote(ctx, token, notesapi.NoteParams{
		Title: "T.", Description: "D.", Category: "Errands",
	})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest || resp.Message != notesapi.MsgBadCategory {
		t.Fatalf("bad category envelope: %d %q", resp.StatusCode, resp.Message)
	}
}

func TestPatchNoteNonBooleanRejected(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)
	ctx := context.Background()
	_, token := registerAndLogin(t, client, "badbool@juniper.example.com")

	created, err := client.CreateNote(ctx, token, notesapi.NoteParams{
		Title: "T.", Description: "D.", Category: "Home",
	})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	n, err := created.Note()
	if err != nil {
		t.Fatalf("decode note: %v", err)
	}

	resp, err := client.SetNoteCompleted(ctx, token, n.ID, "yes")
	if err != nil {
		t.Fatalf("SetNoteCompleted: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest || resp.Message != notesapi.MsgBadCompleted {
		t.Fatalf("non-boolean envelope: %d %q", resp.StatusCode, resp.Message)
	}
}

func TestDeleteNoteMalformedIDRejected(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)
	ctx := context.Background()
	_, token := registerAndLogin(t, client, "badid@larkspur.example.com")

	created, err := client.CreateNote(ctx, token, notesapi.NoteParams{
		Title: "T.", Description: "D.", Category: "Personal",
	})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	n, err := created.Note()
	if err != nil {
		t.Fatalf("decode note: %v", err)
	}

	resp, err := client.DeleteNote(ctx, token, "@"+n.ID)
	if err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest || resp.Message != notesapi.MsgBadNoteID {
		t.Fatalf("malformed id envelope: %d %q", resp.StatusCode, resp.Message)
	}

	still, err := client.Note(ctx, token, n.ID)
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	if still.Message != notesapi.MsgNoteRetrieved {
		t.Fatalf("note gone after rejected delete: %q", still.Message)
	}
}

func TestTamperedTokenRejectedWithFixedMessage(t *testing.T) {
	t.Parallel()
	client := newTestClient(t)
	ctx := context.Background()
	_, token := registerAndLogin(t, client, "tamper@meridian.example.com")

	resp, err := client.Notes(ctx, notesapi.TamperToken(token))
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized || resp.Message != notesapi.MsgInvalidToken {
		t.Fatalf("tampered token envelope: %d %q", resp.StatusCode, resp.Message)
	}

	// The untampered token keeps working.
	ok, err := client.Notes(ctx, token)
	if err != nil {
		t.Fatalf("Notes with real token: %v", err)
	}
	if !ok.Success {
		t.Fatalf("real token rejected: %q", ok.Message)
	}
}

package scenario

import (
	"context"
	"net/http"

	"github.com/lucaspdo/notes-harness/internal/errs"
	"github.com/lucaspdo/notes-harness/internal/notesapi"
)

// Suite returns the full scenario catalog: every user operation plus every
// note operation in its happy, bad-request and unauthorized variants.
func Suite() []Scenario {
	var all []Scenario
	all = append(all, UserSuite()...)
	all = append(all, NoteSuite()...)
	return all
}

// UserSuite covers the account lifecycle operations.
func UserSuite() []Scenario {
	return []Scenario{
		{
			Name: "users/register-login",
			Body: func(ctx context.Context, run *Run) error {
				row, err := run.Reload(ctx)
				if err != nil {
					return err
				}
				if err := EqualField("stored user id", row.ID, run.Account.ID.String()); err != nil {
					return err
				}
				if err := EqualField("stored token", row.Token, run.Account.Token); err != nil {
					return err
				}
				if err := EqualField("login email", run.Account.Email, row.Email); err != nil {
					return err
				}
				return EqualField("login name", run.Account.Name, row.Name)
			},
		},
		{
			Name: "users/profile",
			Body: func(ctx context.Context, run *Run) error {
				resp, err := run.Client().Profile(ctx, run.Auth)
				if err != nil {
					return err
				}
				if err := Expect(resp, http.StatusOK, notesapi.MsgProfileSuccess); err != nil {
					return err
				}
				acct, err := resp.Account()
				if err != nil {
					return err
				}
				if err := EqualField("profile email", acct.Email, run.Row.Email); err != nil {
					return err
				}
				return EqualField("profile id", acct.ID.String(), run.Row.ID)
			},
		},
		{
			Name: "users/profile-update",
			Body: func(ctx context.Context, run *Run) error {
				resp, err := run.Client().UpdateProfile(ctx, run.Auth, notesapi.ProfileParams{
					Name:    run.Row.Name,
					Phone:   run.Row.Phone,
					Company: run.Row.Company,
				})
				if err != nil {
					return err
				}
				if err := Expect(resp, http.StatusOK, notesapi.MsgProfileUpdated); err != nil {
					return err
				}
				acct, err := resp.Account()
				if err != nil {
					return err
				}
				if err := EqualField("updated phone", acct.Phone, run.Row.Phone); err != nil {
					return err
				}
				return EqualField("updated company", acct.Company, run.Row.Company)
			},
		},
		{
			Name:         "users/profile-unauthorized",
			Unauthorized: true,
			Body: func(ctx context.Context, run *Run) error {
				resp, err := run.Client().Profile(ctx, run.Auth)
				if err != nil {
					return err
				}
				return ExpectUnauthorized(resp)
			},
		},
		{
			Name: "users/change-password",
			Body: func(ctx context.Context, run *Run) error {
				next := run.Row.Password + "X1"
				resp, err := run.Client().ChangePassword(ctx, run.Auth, run.Row.Password, next)
				if err != nil {
					return err
				}
				if err := Expect(resp, http.StatusOK, notesapi.MsgPasswordUpdated); err != nil {
					return err
				}
				relogin, err := run.Client().Login(ctx, run.Row.Email, next)
				if err != nil {
					return err
				}
				return Expect(relogin, http.StatusOK, notesapi.MsgLoginSuccess)
			},
		},
		{
			Name: "users/logout",
			Body: func(ctx context.Context, run *Run) error {
				resp, err := run.Client().Logout(ctx, run.Auth)
				if err != nil {
					return err
				}
				if err := Expect(resp, http.StatusOK, notesapi.MsgLogoutSuccess); err != nil {
					return err
				}
				stale, err := run.Client().Profile(ctx, run.Auth)
				if err != nil {
					return err
				}
				return ExpectUnauthorized(stale)
			},
		},
		{
			Name: "users/delete-account",
			Body: func(ctx context.Context, run *Run) error {
				resp, err := run.Client().DeleteAccount(ctx, run.Auth)
				if err != nil {
					return err
				}
				if err := Expect(resp, http.StatusOK, notesapi.MsgAccountDeleted); err != nil {
					return err
				}
				gone, err := run.Client().Profile(ctx, run.Auth)
				if err != nil {
					return err
				}
				return ExpectUnauthorized(gone)
			},
		},
	}
}

// NoteSuite covers every note operation in happy, bad-request and
// unauthorized variants.
func NoteSuite() []Scenario {
	return []Scenario{
		{
			Name: "notes/create",
			Body: func(ctx context.Context, run *Run) error {
				n, err := createSeedNote(ctx, run, run.Auth)
				if err != nil {
					return err
				}
				if n.Completed {
					return errs.New(errs.FailedPrecondition, "fresh note reported completed")
				}
				if n.CreatedAt == "" || n.CreatedAt != n.UpdatedAt {
					return errs.New(errs.FailedPrecondition, "fresh note timestamps disagree")
				}
				if err := EqualField("note owner", n.UserID.String(), run.Account.ID.String()); err != nil {
					return err
				}
				row, err := run.Reload(ctx)
				if err != nil {
					return err
				}
				if err := EqualField("stored note id", row.NoteID, n.ID.String()); err != nil {
					return err
				}
				return EqualField("stored note completed", row.NoteCompleted, "false")
			},
		},
		{
			Name: "notes/create-bad-category",
			Body: func(ctx context.Context, run *Run) error {
				resp, err := run.Client().CreateNote(ctx, run.Auth, notesapi.NoteParams{
					Title:       run.Row.NoteTitle,
					Description: run.Row.NoteDescription,
					Category:    "Errands",
				})
				if err != nil {
					return err
				}
				return Expect(resp, http.StatusBadRequest, notesapi.MsgBadCategory)
			},
		},
		{
			Name:         "notes/create-unauthorized",
			Unauthorized: true,
			Body: func(ctx context.Context, run *Run) error {
				resp, err := run.Client().CreateNote(ctx, run.Auth, notesapi.NoteParams{
					Title:       run.Row.NoteTitle,
					Description: run.Row.NoteDescription,
					Category:    run.Row.NoteCategory,
				})
				if err != nil {
					return err
				}
				return ExpectUnauthorized(resp)
			},
		},
		{
			Name: "notes/list",
			Body: func(ctx context.Context, run *Run) error {
				// Three incomplete notes plus one completed through a full
				// update, newest first in the listing.
				var last notesapi.Note
				for i := 0; i < 4; i++ {
					n, err := createSeedNote(ctx, run, run.Auth)
					if err != nil {
						return err
					}
					last = n
				}
				resp, err := run.Client().UpdateNote(ctx, run.Auth, last.ID, notesapi.NoteParams{
					Title:       last.Title,
					Description: last.Description,
					Category:    last.Category,
					Completed:   "true",
				})
				if err != nil {
					return err
				}
				if err := Expect(resp, http.StatusOK, notesapi.MsgNoteUpdated); err != nil {
					return err
				}

				listed, err := run.Client().Notes(ctx, run.Auth)
				if err != nil {
					return err
				}
				if err := Expect(listed, http.StatusOK, notesapi.MsgNotesRetrieved); err != nil {
					return err
				}
				notes, err := listed.Notes()
				if err != nil {
					return err
				}
				if len(notes) != 4 {
					return errs.New(errs.FailedPrecondition, "listing does not hold the 4 created notes")
				}
				completed := 0
				for i, n := range notes {
					if n.Completed {
						completed++
					}
					if i > 0 && notes[i-1].UpdatedAt < n.UpdatedAt {
						return errs.New(errs.FailedPrecondition, "listing is not newest-first")
					}
				}
				if completed != 1 {
					return errs.New(errs.FailedPrecondition, "exactly one note should be completed")
				}
				if err := EqualField("most recent note", notes[0].ID.String(), last.ID.String()); err != nil {
					return err
				}
				return nil
			},
		},
		{
			Name:         "notes/list-unauthorized",
			Unauthorized: true,
			Body: func(ctx context.Context, run *Run) error {
				resp, err := run.Client().Notes(ctx, run.Auth)
				if err != nil {
					return err
				}
				return ExpectUnauthorized(resp)
			},
		},
		{
			Name: "notes/get",
			Body: func(ctx context.Context, run *Run) error {
				created, err := createSeedNote(ctx, run, run.Auth)
				if err != nil {
					return err
				}
				resp, err := run.Client().Note(ctx, run.Auth, created.ID)
				if err != nil {
					return err
				}
				if err := Expect(resp, http.StatusOK, notesapi.MsgNoteRetrieved); err != nil {
					return err
				}
				got, err := resp.Note()
				if err != nil {
					return err
				}
				row, err := run.Reload(ctx)
				if err != nil {
					return err
				}
				if err := EqualField("note id", got.ID.String(), row.NoteID); err != nil {
					return err
				}
				if err := EqualField("note title", got.Title, row.NoteTitle); err != nil {
					return err
				}
				if err := EqualField("note category", got.Category, row.NoteCategory); err != nil {
					return err
				}
				return EqualField("note created_at", got.CreatedAt, row.NoteCreatedAt)
			},
		},
		{
			Name:         "notes/get-unauthorized",
			Unauthorized: true,
			Body: func(ctx context.Context, run *Run) error {
				created, err := createSeedNote(ctx, run, run.GenuineAuth())
				if err != nil {
					return err
				}
				resp, err := run.Client().Note(ctx, run.Auth, created.ID)
				if err != nil {
					return err
				}
				return ExpectUnauthorized(resp)
			},
		},
		{
			Name: "notes/update",
			Body: func(ctx context.Context, run *Run) error {
				created, err := createSeedNote(ctx, run, run.Auth)
				if err != nil {
					return err
				}
				resp, err := run.Client().UpdateNote(ctx, run.Auth, created.ID, notesapi.NoteParams{
					Title:       "Updated " + created.Title,
					Description: "Updated " + created.Description,
					Category:    nextCategory(created.Category),
					Completed:   "true",
				})
				if err != nil {
					return err
				}
				if err := Expect(resp, http.StatusOK, notesapi.MsgNoteUpdated); err != nil {
					return err
				}
				updated, err := resp.Note()
				if err != nil {
					return err
				}
				if !updated.Completed {
					return errs.New(errs.FailedPrecondition, "full update did not set completed")
				}
				if err := EqualField("updated title", updated.Title, "Updated "+created.Title); err != nil {
					return err
				}
				if err := EqualField("updated category", updated.Category, nextCategory(created.Category)); err != nil {
					return err
				}
				if err := EqualField("created_at is immutable", updated.CreatedAt, created.CreatedAt); err != nil {
					return err
				}
				if updated.UpdatedAt < created.UpdatedAt {
					return errs.New(errs.FailedPrecondition, "updated_at moved backwards")
				}
				if err := run.RecordNote(ctx, updated); err != nil {
					return err
				}
				row, err := run.Reload(ctx)
				if err != nil {
					return err
				}
				return EqualField("stored note completed", row.NoteCompleted, "true")
			},
		},
		{
			Name: "notes/update-bad-category",
			Body: func(ctx context.Context, run *Run) error {
				created, err := createSeedNote(ctx, run, run.Auth)
				if err != nil {
					return err
				}
				resp, err := run.Client().UpdateNote(ctx, run.Auth, created.ID, notesapi.NoteParams{
					Title:       created.Title,
					Description: created.Description,
					Category:    "Chores",
					Completed:   "false",
				})
				if err != nil {
					return err
				}
				return Expect(resp, http.StatusBadRequest, notesapi.MsgBadCategory)
			},
		},
		{
			Name:         "notes/update-unauthorized",
			Unauthorized: true,
			Body: func(ctx context.Context, run *Run) error {
				created, err := createSeedNote(ctx, run, run.GenuineAuth())
				if err != nil {
					return err
				}
				resp, err := run.Client().UpdateNote(ctx, run.Auth, created.ID, notesapi.NoteParams{
					Title:       created.Title,
					Description: created.Description,
					Category:    created.Category,
					Completed:   "true",
				})
				if err != nil {
					return err
				}
				return ExpectUnauthorized(resp)
			},
		},
		{
			Name: "notes/patch-completed",
			Body: func(ctx context.Context, run *Run) error {
				created, err := createSeedNote(ctx, run, run.Auth)
				if err != nil {
					return err
				}
				resp, err := run.Client().SetNoteCompleted(ctx, run.Auth, created.ID, "true")
				if err != nil {
					return err
				}
				if err := Expect(resp, http.StatusOK, notesapi.MsgNoteUpdated); err != nil {
					return err
				}
				patched, err := resp.Note()
				if err != nil {
					return err
				}
				if !patched.Completed {
					return errs.New(errs.FailedPrecondition, "patch did not set completed")
				}
				if err := EqualField("patch preserves title", patched.Title, created.Title); err != nil {
					return err
				}
				return run.RecordNote(ctx, patched)
			},
		},
		{
			Name: "notes/patch-non-boolean",
			Body: func(ctx context.Context, run *Run) error {
				created, err := createSeedNote(ctx, run, run.Auth)
				if err != nil {
					return err
				}
				resp, err := run.Client().SetNoteCompleted(ctx, run.Auth, created.ID, "yes")
				if err != nil {
					return err
				}
				return Expect(resp, http.StatusBadRequest, notesapi.MsgBadCompleted)
			},
		},
		{
			Name:         "notes/patch-unauthorized",
			Unauthorized: true,
			Body: func(ctx context.Context, run *Run) error {
				created, err := createSeedNote(ctx, run, run.GenuineAuth())
				if err != nil {
					return err
				}
				resp, err := run.Client().SetNoteCompleted(ctx, run.Auth, created.ID, "true")
				if err != nil {
					return err
				}
				return ExpectUnauthorized(resp)
			},
		},
		{
			Name: "notes/delete",
			Body: func(ctx context.Context, run *Run) error {
				created, err := createSeedNote(ctx, run, run.Auth)
				if err != nil {
					return err
				}
				resp, err := run.Client().DeleteNote(ctx, run.Auth, created.ID)
				if err != nil {
					return err
				}
				if err := Expect(resp, http.StatusOK, notesapi.MsgNoteDeleted); err != nil {
					return err
				}
				gone, err := run.Client().Note(ctx, run.Auth, created.ID)
				if err != nil {
					return err
				}
				return Expect(gone, http.StatusNotFound, notesapi.MsgNoteNotFound)
			},
		},
		{
			Name: "notes/delete-bad-id",
			Body: func(ctx context.Context, run *Run) error {
				created, err := createSeedNote(ctx, run, run.Auth)
				if err != nil {
					return err
				}
				resp, err := run.Client().DeleteNote(ctx, run.Auth, "@"+created.ID)
				if err != nil {
					return err
				}
				if err := Expect(resp, http.StatusBadRequest, notesapi.MsgBadNoteID); err != nil {
					return err
				}
				// The note must survive the rejected delete.
				still, err := run.Client().Note(ctx, run.Auth, created.ID)
				if err != nil {
					return err
				}
				return Expect(still, http.StatusOK, notesapi.MsgNoteRetrieved)
			},
		},
		{
			Name:         "notes/delete-unauthorized",
			Unauthorized: true,
			Body: func(ctx context.Context, run *Run) error {
				created, err := createSeedNote(ctx, run, run.GenuineAuth())
				if err != nil {
					return err
				}
				resp, err := run.Client().DeleteNote(ctx, run.Auth, created.ID)
				if err != nil {
					return err
				}
				if err := ExpectUnauthorized(resp); err != nil {
					return err
				}
				// The note must survive the rejected delete.
				still, err := run.Client().Note(ctx, run.GenuineAuth(), created.ID)
				if err != nil {
					return err
				}
				return Expect(still, http.StatusOK, notesapi.MsgNoteRetrieved)
			},
		},
	}
}

// createSeedNote creates the reserved row's note through the service,
// verifies the create envelope and records the result in the seed row and
// the fixture record.
func createSeedNote(ctx context.Context, run *Run, auth string) (notesapi.Note, error) {
	resp, err := run.Client().CreateNote(ctx, auth, notesapi.NoteParams{
		Title:       run.Row.NoteTitle,
		Description: run.Row.NoteDescription,
		Category:    run.Row.NoteCategory,
	})
	if err != nil {
		return notesapi.Note{}, err
	}
	if err := Expect(resp, http.StatusOK, notesapi.MsgNoteCreated); err != nil {
		return notesapi.Note{}, errs.Wrap(errs.FailedPrecondition, "create note", err)
	}
	n, err := resp.Note()
	if err != nil {
		return notesapi.Note{}, err
	}
	if err := run.RecordNote(ctx, n); err != nil {
		return notesapi.Note{}, err
	}
	return n, nil
}

// nextCategory returns a valid category different from current.
func nextCategory(current string) string {
	switch current {
	case "Home":
		return "Work"
	case "Work":
		return "Personal"
	default:
		return "Home"
	}
}

package scenario

import (
	"context"
	"net/http"

	"github.com/lucaspdo/notes-harness/internal/errs"
	"github.com/lucaspdo/notes-harness/internal/fixture"
	"github.com/lucaspdo/notes-harness/internal/notesapi"
	"github.com/lucaspdo/notes-harness/internal/obs"
	"github.com/lucaspdo/notes-harness/internal/seed"
	"github.com/lucaspdo/notes-harness/internal/token"
)

// Scenario is one parameterized case. The runner registers and logs in a
// fresh account from a reserved seed row before Body runs, and cleans up
// afterwards whether Body succeeded or not.
type Scenario struct {
	Name string
	// Unauthorized hands Body a tampered session token. Cleanup still uses
	// the genuine one.
	Unauthorized bool
	Body         func(ctx context.Context, run *Run) error
}

// Run is the per-scenario state handed to Body.
type Run struct {
	// Token is the correlation token namespacing this scenario's fixture
	// record and log lines.
	Token string
	// Row is the reserved seed row as of login, with id and token written
	// back.
	Row seed.Row
	// Account is the login response payload.
	Account notesapi.Account
	// Auth is the session token Body should send. Tampered when the
	// scenario is Unauthorized.
	Auth string

	session  *Session
	realAuth string
}

// Execute runs one scenario end to end: throttle, reserve a seed row,
// register, login, write server-assigned fields back to the row, persist the
// fixture record, run Body, then clean up. Cleanup always runs; it deletes
// the remote account, discards the fixture record and retires or releases
// the seed row depending on whether the remote delete went through.
func (s *Session) Execute(ctx context.Context, sc Scenario) error {
	if err := s.throttle(ctx); err != nil {
		return errs.Wrap(errs.Unavailable, "throttle wait", err)
	}

	tok := token.New()
	ctx = obs.WithCorrelation(ctx, obs.Correlation{
		RunID:    s.RunID,
		Token:    tok,
		Scenario: sc.Name,
	})
	logger := obs.From(ctx)
	logger.Info("scenario start")

	row, err := s.Seeds.Checkout(ctx)
	if err != nil {
		return err
	}
	ctx = obs.WithCorrelation(ctx, obs.Correlation{SeedIndex: row.Index})

	run := &Run{Token: tok, Row: row, session: s}
	defer s.cleanup(ctx, run)

	if err := s.provision(ctx, run); err != nil {
		logger.Error("scenario provisioning failed", "err", err)
		return err
	}

	run.Auth = run.realAuth
	if sc.Unauthorized {
		run.Auth = notesapi.TamperToken(run.realAuth)
	}

	if err := sc.Body(ctx, run); err != nil {
		logger.Error("scenario failed", "err", err)
		return err
	}
	logger.Info("scenario passed")
	return nil
}

// provision registers and logs in the reserved row's identity, writing the
// server-assigned id and token back to the seed row and persisting the
// initial fixture record.
func (s *Session) provision(ctx context.Context, run *Run) error {
	row := run.Row

	reg, err := s.Client.Register(ctx, notesapi.RegisterParams{
		Name:     row.Name,
		Email:    row.Email,
		Password: row.Password,
	})
	if err != nil {
		return err
	}
	if err := Expect(reg, http.StatusCreated, notesapi.MsgUserCreated); err != nil {
		return errs.Wrap(errs.FailedPrecondition, "register "+row.Email, err)
	}
	regAcct, err := reg.Account()
	if err != nil {
		return err
	}
	if err := s.Seeds.Update(ctx, row.Index, seed.Fields{
		ID: seed.String(regAcct.ID.String()),
	}); err != nil {
		return err
	}

	login, err := s.Client.Login(ctx, row.Email, row.Password)
	if err != nil {
		return err
	}
	if err := Expect(login, http.StatusOK, notesapi.MsgLoginSuccess); err != nil {
		return errs.Wrap(errs.FailedPrecondition, "login "+row.Email, err)
	}
	acct, err := login.Account()
	if err != nil {
		return err
	}
	if err := s.Seeds.Update(ctx, row.Index, seed.Fields{
		Token: seed.String(acct.Token),
	}); err != nil {
		return err
	}

	run.Account = acct
	run.realAuth = acct.Token
	run.Row, err = s.Seeds.Read(ctx, row.Index)
	if err != nil {
		return err
	}
	return s.Fixtures.Write(run.Token, fixture.Record{
		UserIndex:    row.Index,
		UserID:       acct.ID.String(),
		UserName:     row.Name,
		UserEmail:    row.Email,
		UserPassword: row.Password,
		UserToken:    acct.Token,
	})
}

// cleanup tears one scenario down. Failures here are logged, never
// returned, so a cleanup hiccup cannot mask the scenario verdict.
func (s *Session) cleanup(ctx context.Context, run *Run) {
	logger := obs.From(ctx)
	consumed := false

	if run.realAuth != "" {
		resp, err := s.Client.DeleteAccount(ctx, run.realAuth)
		switch {
		case err != nil:
			logger.Warn("cleanup: delete account failed", "err", err)
		case resp.Success:
			consumed = true
		case resp.StatusCode == http.StatusUnauthorized:
			// Stale token: the body may have logged the session out, or it
			// may have deleted the account. A fresh login tells them apart.
			consumed = s.deleteWithFreshLogin(ctx, run)
		default:
			logger.Warn("cleanup: delete account rejected",
				"http_status", resp.StatusCode, "message", resp.Message)
		}
	}

	s.Fixtures.Discard(run.Token)

	if consumed {
		s.Seeds.Consume(run.Row.Index)
	} else {
		s.Seeds.Release(run.Row.Index)
	}
	logger.Debug("scenario cleaned up", "consumed", consumed)
}

// deleteWithFreshLogin retries the cleanup delete after a 401. A dead token
// does not mean a dead account: the logout scenario invalidates the session
// and leaves the account behind. Log in again with the row's credentials and
// delete with the new token; only a rejected login means the account is
// genuinely gone. Reports whether the account is known deleted.
func (s *Session) deleteWithFreshLogin(ctx context.Context, run *Run) bool {
	logger := obs.From(ctx)

	login, err := s.Client.Login(ctx, run.Row.Email, run.Row.Password)
	if err != nil {
		logger.Warn("cleanup: re-login failed", "err", err)
		return false
	}
	if !login.Success {
		// Body already deleted the account.
		return true
	}
	acct, err := login.Account()
	if err != nil {
		logger.Warn("cleanup: re-login payload unreadable", "err", err)
		return false
	}
	resp, err := s.Client.DeleteAccount(ctx, acct.Token)
	if err != nil {
		logger.Warn("cleanup: delete account retry failed", "err", err)
		return false
	}
	if !resp.Success {
		logger.Warn("cleanup: delete account retry rejected",
			"http_status", resp.StatusCode, "message", resp.Message)
		return false
	}
	return true
}

// RecordNote writes a created note back to the seed row and the fixture
// record, so later assertions can compare service state against stored
// state.
func (r *Run) RecordNote(ctx context.Context, n notesapi.Note) error {
	completed := "false"
	if n.Completed {
		completed = "true"
	}
	err := r.session.Seeds.Update(ctx, r.Row.Index, seed.Fields{
		NoteID:          seed.String(n.ID.String()),
		NoteTitle:       seed.String(n.Title),
		NoteDescription: seed.String(n.Description),
		NoteCompleted:   seed.String(completed),
		NoteCreatedAt:   seed.String(n.CreatedAt),
		NoteUpdatedAt:   seed.String(n.UpdatedAt),
		NoteCategory:    seed.String(n.Category),
	})
	if err != nil {
		return err
	}

	record, err := r.session.Fixtures.Read(r.Token)
	if err != nil {
		return err
	}
	record.NoteID = n.ID.String()
	record.NoteTitle = n.Title
	record.NoteDescription = n.Description
	record.NoteCompleted = n.Completed
	record.NoteCreatedAt = n.CreatedAt
	record.NoteUpdatedAt = n.UpdatedAt
	record.NoteCategory = n.Category
	return r.session.Fixtures.Write(r.Token, record)
}

// Reload re-reads the scenario's seed row, returning the stored state
// assertions compare responses against.
func (r *Run) Reload(ctx context.Context) (seed.Row, error) {
	return r.session.Seeds.Read(ctx, r.Row.Index)
}

// Client returns the session's API driver.
func (r *Run) Client() *notesapi.Client {
	return r.session.Client
}

// GenuineAuth returns the untampered session token. Unauthorized scenarios
// use it for their setup calls so only the operation under test fails.
func (r *Run) GenuineAuth() string {
	return r.realAuth
}

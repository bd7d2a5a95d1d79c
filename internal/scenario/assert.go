package scenario

import (
	"fmt"
	"net/http"

	"github.com/lucaspdo/notes-harness/internal/errs"
	"github.com/lucaspdo/notes-harness/internal/notesapi"
)

// Expect checks an envelope against the contract's status and message for
// an operation. Success responses must also carry success=true and echo the
// status inside the envelope.
func Expect(resp notesapi.Response, wantStatus int, wantMessage string) error {
	var problems []string
	if resp.StatusCode != wantStatus {
		problems = append(problems, fmt.Sprintf("http status %d, want %d", resp.StatusCode, wantStatus))
	}
	if resp.Status != wantStatus {
		problems = append(problems, fmt.Sprintf("envelope status %d, want %d", resp.Status, wantStatus))
	}
	if resp.Message != wantMessage {
		problems = append(problems, fmt.Sprintf("message %q, want %q", resp.Message, wantMessage))
	}
	wantSuccess := wantStatus < http.StatusBadRequest
	if resp.Success != wantSuccess {
		problems = append(problems, fmt.Sprintf("success=%v, want %v", resp.Success, wantSuccess))
	}
	if len(problems) > 0 {
		return errs.New(errs.FailedPrecondition, joinProblems(problems))
	}
	return nil
}

// ExpectUnauthorized checks the fixed envelope the service returns for a
// tampered or expired token.
func ExpectUnauthorized(resp notesapi.Response) error {
	return Expect(resp, http.StatusUnauthorized, notesapi.MsgInvalidToken)
}

// EqualField reports a mismatch between a response field and the stored
// value it must agree with.
func EqualField(field, got, want string) error {
	if got != want {
		return errs.New(errs.FailedPrecondition,
			fmt.Sprintf("%s: got %q, want %q", field, got, want))
	}
	return nil
}

func joinProblems(problems []string) string {
	out := problems[0]
	for _, p := range problems[1:] {
		out += "; " + p
	}
	return out
}

package notesapi

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/lucaspdo/notes-harness/internal/errs"
)

// Fixed response messages of the remote service. Assertions compare against
// these verbatim.
const (
	MsgUserCreated     = "User account created successfully"
	MsgLoginSuccess    = "Login successful"
	MsgProfileSuccess  = "Profile successful"
	MsgProfileUpdated  = "Profile updated successful"
	MsgPasswordUpdated = "The password was successfully updated"
	MsgLogoutSuccess   = "User has been successfully logged out"
	MsgAccountDeleted  = "Account successfully deleted"

	MsgNoteCreated    = "Note successfully created"
	MsgNotesRetrieved = "Notes successfully retrieved"
	MsgNoteRetrieved  = "Note successfully retrieved"
	MsgNoteUpdated    = "Note successfully updated"
	MsgNoteDeleted    = "Note successfully deleted"

	MsgBadCategory  = "Category must be one of the categories: Home, Work, Personal"
	MsgBadCompleted = "Note completed status must be boolean"
	MsgBadNoteID    = "Note ID must be a valid ID"
	MsgInvalidToken = "Access token is not valid or has expired, you will need to login"
	MsgNoteNotFound = "No note was found with the provided ID, Maybe it was deleted"
)

// Envelope is the uniform response body of the remote service. Data stays
// raw so the caller decodes it into the shape the operation returns.
type Envelope struct {
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Response is an Envelope paired with the HTTP status line it arrived with.
type Response struct {
	StatusCode int
	Envelope
}

// Account decodes the data payload as a user account.
func (r Response) Account() (Account, error) {
	var a Account
	if err := r.decode(&a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Note decodes the data payload as a single note.
func (r Response) Note() (Note, error) {
	var n Note
	if err := r.decode(&n); err != nil {
		return Note{}, err
	}
	return n, nil
}

// Notes decodes the data payload as a list of notes.
func (r Response) Notes() ([]Note, error) {
	var ns []Note
	if err := r.decode(&ns); err != nil {
		return nil, err
	}
	return ns, nil
}

func (r Response) decode(v any) error {
	if len(r.Data) == 0 {
		return errs.New(errs.NotFound, "response carries no data payload")
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return errs.Wrap(errs.Internal, "decode response data", err)
	}
	return nil
}

// Account is the user payload returned by register, login and profile.
// Token is present only on login.
type Account struct {
	ID      FlexID `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Note is the note payload returned by the notes operations.
type Note struct {
	ID          FlexID `json:"id"`
	UserID      FlexID `json:"user_id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// FlexID is an identifier the remote service serializes sometimes as a JSON
// string and sometimes as a number. It always compares as a string.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(string(f))
}

func (f FlexID) String() string {
	return string(f)
}

package notesapi

import (
	"context"
	"net/http"
	"net/url"
)

// NoteParams are the writable note fields. Completed is sent as the literal
// strings "true"/"false"; invalid values exercise the service's boolean
// validation, so it stays a string here.
type NoteParams struct {
	Title       string
	Description string
	Category    string
	Completed   string
}

// CreateNote adds a note for the authenticated account. Category must be
// one of Home, Personal or Work or the service rejects with 400.
func (c *Client) CreateNote(ctx context.Context, token string, p NoteParams) (Response, error) {
	return c.do(ctx, http.MethodPost, "/notes", token, url.Values{
		"title":       {p.Title},
		"description": {p.Description},
		"category":    {p.Category},
	})
}

// Notes lists every note of the authenticated account, most recently
// updated first.
func (c *Client) Notes(ctx context.Context, token string) (Response, error) {
	return c.do(ctx, http.MethodGet, "/notes", token, nil)
}

// Note reads one note by id.
func (c *Client) Note(ctx context.Context, token string, id FlexID) (Response, error) {
	return c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id.String()), token, nil)
}

// UpdateNote replaces every writable field of a note.
func (c *Client) UpdateNote(ctx context.Context, token string, id FlexID, p NoteParams) (Response, error) {
	return c.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id.String()), token, url.Values{
		"title":       {p.Title},
		"description": {p.Description},
		"category":    {p.Category},
		"completed":   {p.Completed},
	})
}

// SetNoteCompleted patches only the completed flag. completed is the
// literal form value sent; anything but "true"/"false" draws a 400.
func (c *Client) SetNoteCompleted(ctx context.Context, token string, id FlexID, completed string) (Response, error) {
	return c.do(ctx, http.MethodPatch, "/notes/"+url.PathEscape(id.String()), token, url.Values{
		"completed": {completed},
	})
}

// DeleteNote removes one note by id.
func (c *Client) DeleteNote(ctx context.Context, token string, id FlexID) (Response, error) {
	return c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id.String()), token, nil)
}

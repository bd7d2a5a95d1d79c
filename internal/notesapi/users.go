package notesapi

import (
	"context"
	"net/http"
	"net/url"
)

// RegisterParams are the fields the register form accepts. ConfirmPassword
// defaults to Password when left empty.
type RegisterParams struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a remote account. Succeeds with 201 and a data payload
// of {id, name, email}.
func (c *Client) Register(ctx context.Context, p RegisterParams) (Response, error) {
	confirm := p.ConfirmPassword
	if confirm == "" {
		confirm = p.Password
	}
	return c.do(ctx, http.MethodPost, "/users/register", "", url.Values{
		"name":            {p.Name},
		"email":           {p.Email},
		"password":        {p.Password},
		"confirmPassword": {confirm},
	})
}

// Login exchanges credentials for a session token. The data payload is
// {id, name, email, token}.
func (c *Client) Login(ctx context.Context, email, password string) (Response, error) {
	return c.do(ctx, http.MethodPost, "/users/login", "", url.Values{
		"email":    {email},
		"password": {password},
	})
}

// Profile reads the authenticated account.
func (c *Client) Profile(ctx context.Context, token string) (Response, error) {
	return c.do(ctx, http.MethodGet, "/users/profile", token, nil)
}

// ProfileParams are the mutable profile fields.
type ProfileParams struct {
	Name    string
	Phone   string
	Company string
}

// UpdateProfile patches name, phone and company on the account.
func (c *Client) UpdateProfile(ctx context.Context, token string, p ProfileParams) (Response, error) {
	return c.do(ctx, http.MethodPatch, "/users/profile", token, url.Values{
		"name":    {p.Name},
		"phone":   {p.Phone},
		"company": {p.Company},
	})
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, token, current, next string) (Response, error) {
	return c.do(ctx, http.MethodPost, "/users/change-password", token, url.Values{
		"currentPassword": {current},
		"newPassword":     {next},
	})
}

// Logout invalidates the session token.
func (c *Client) Logout(ctx context.Context, token string) (Response, error) {
	return c.do(ctx, http.MethodDelete, "/users/logout", token, nil)
}

// DeleteAccount removes the account and everything under it.
func (c *Client) DeleteAccount(ctx context.Context, token string) (Response, error) {
	return c.do(ctx, http.MethodDelete, "/users/delete-account", token, nil)
}

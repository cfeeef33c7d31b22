// ABOUTME: Authentication endpoints of the campus events API
// ABOUTME: Login, registration, logout and session verification

package client

import (
	"context"
	"net/http"
)

// Login calls POST /api/auth/login. The session cookie set by the server is
// kept in the client's jar.
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	var resp *LoginResponse
	err := c.sendJSON(ctx, http.MethodPost, "/api/auth/login", LoginRequest{
		UsernameOrEmail: identifier,
		Password:        password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, &Error{Kind: KindDecode, Status: http.StatusOK, Message: "invalid response from backend: empty login reply"}
	}
	return resp, nil
}

// Register calls POST /api/auth/register and returns the server's message.
// A successful registration does not sign the user in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Logout calls POST /api/auth/logout. Local cookies are dropped whatever
// the outcome so a failed call still leaves this client signed out.
func (c *Client) Logout(ctx context.Context) (string, error) {
	var resp MessageResponse
	err := c.sendJSON(ctx, http.MethodPost, "/api/auth/logout", nil, &resp)
	c.ClearCookies(context.WithoutCancel(ctx))
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Me calls GET /api/users/me to verify the current session
func (c *Client) Me(ctx context.Context) (*UserInfo, error) {
	var user *UserInfo
	if err := c.getJSON(ctx, "/api/users/me", &user); err != nil {
		return nil, err
	}
	if user == nil || user.Username == "" {
		return nil, &Error{Kind: KindDecode, Status: http.StatusOK, Message: "invalid response from backend: missing user"}
	}
	return user, nil
}

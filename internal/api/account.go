package api

import (
	"context"

	"github.com/tartampluch/birthdays/internal/config"
)

// Credentials is the body of POST /login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of POST /register.
type Registration struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	return c.token(ctx, config.RouteLogin, creds)
}

// Register creates an account and returns its session token.
func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	return c.token(ctx, config.RouteRegister, reg)
}

// Logout revokes the current token server side.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Post(config.RouteLogout)
	return check(resp, err)
}

func (c *Client) token(ctx context.Context, route string, body any) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(route)
	if err := check(resp, err); err != nil {
		return "", err
	}

	var t tokenResponse
	if err := decodeJSON(resp.Body(), &t); err != nil {
		return "", err
	}
	return t.Token, nil
}

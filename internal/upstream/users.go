package upstream

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Login exchanges operator credentials for a bearer token. A 401 maps to
// ErrInvalidCredentials so the login form can render it inline.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var out LoginResult
	err := c.postJSON(ctx, "users/login", "/api/users/login", "", body, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if strings.TrimSpace(out.Token) == "" {
		return LoginResult{}, errors.New("upstream users/login: response has no token")
	}
	return out, nil
}

// Users lists the operator accounts known to the remote API.
func (c *Client) Users(ctx context.Context, token string) ([]User, error) {
	var out []User
	if err := c.getJSON(ctx, "users", "/api/users", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

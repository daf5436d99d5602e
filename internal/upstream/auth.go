package upstream

import (
	"context"
	"net/http"
)

// Login exchanges provider credentials for a token pair. Unauthenticated call.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var tokens TokenPair
	err := c.do(ctx, nil, call{
		endpoint: "auth.login",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     map[string]string{"email": email, "password": password},
		out:      &tokens,
	})
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Profile fetches the authenticated provider's identity and role.
func (c *Client) Profile(ctx context.Context, ts TokenSource) (*Profile, error) {
	var profile Profile
	err := c.do(ctx, ts, call{
		endpoint: "auth.profile",
		method:   http.MethodGet,
		path:     "/auth/profile",
		out:      &profile,
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

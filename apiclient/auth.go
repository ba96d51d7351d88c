package apiclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariebrainware/psych-practice/model"
	"github.com/golang-jwt/jwt/v4"
)

// ErrNoToken is returned by Claims when no token is set.
var ErrNoToken = errors.New("no token set")

// Login exchanges credentials for an access token and attaches it to the
// client on success.
func (c *Client) Login(ctx context.Context, email, password string) (model.LoginResponse, error) {
	resp, err := post[model.LoginResponse](ctx, c, "/auth/login", model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return resp, err
	}
	if resp.AccessToken != "" {
		c.SetToken(resp.AccessToken)
	}
	return resp, nil
}

// Logout forgets the token locally. The API keeps no session to end.
func (c *Client) Logout() {
	c.ClearToken()
}

// Claims is the information carried by an access token.
type Claims struct {
	Subject   string
	Email     string
	Role      model.Role
	ExpiresAt time.Time
}

// Expired reports whether the token had expired at now. Tokens without an
// expiry never expire.
func (cl Claims) Expired(now time.Time) bool {
	return !cl.ExpiresAt.IsZero() && !now.Before(cl.ExpiresAt)
}

// Claims decodes the current token without checking its signature; only the
// API can verify it.
func (c *Client) Claims() (Claims, error) {
	tok := c.Token()
	if tok == "" {
		return Claims{}, ErrNoToken
	}
	return ParseClaims(tok)
}

// ParseClaims decodes the claims of an unverified JWT.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("parse token claims: %w", err)
	}

	var out Claims
	if v, ok := mc["sub"].(string); ok {
		out.Subject = v
	}
	if v, ok := mc["email"].(string); ok {
		out.Email = v
	}
	if v, ok := mc["role"].(string); ok {
		out.Role = model.Role(v)
	}
	if exp, ok := mc["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}

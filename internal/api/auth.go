package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tennis-web/internal/domain"
)

// Credentials is the login payload
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. The backend answers with
// the bare token as the response body.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	data, _, err := c.text(ctx, http.MethodPost, "/auth/login", nil, creds)
	if err != nil {
		return "", err
	}
	token := parseToken(data)
	if token == "" {
		return "", fmt.Errorf("login: %w", ErrEmptyToken)
	}
	return token, nil
}

func parseToken(data []byte) string {
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return strings.TrimSpace(s)
		}
	case '{':
		var obj struct {
			Token       string `json:"token"`
			AccessToken string `json:"accessToken"`
		}
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			if obj.Token != "" {
				return obj.Token
			}
			return obj.AccessToken
		}
	}
	return raw
}

// Register creates a new account. The role of in is sent as given.
func (c *Client) Register(ctx context.Context, in domain.UserInput) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, in, nil)
}

// Me returns the user the bearer token belongs to
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

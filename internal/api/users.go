package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tennis-web/internal/domain"
)

// ListUsers returns every account
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	return c.users(ctx, "/users")
}

// ListPlayers returns accounts with the PLAYER role
func (c *Client) ListPlayers(ctx context.Context) ([]domain.User, error) {
	return c.users(ctx, "/users/players")
}

// ListReferees returns accounts with the REFEREE role
func (c *Client) ListReferees(ctx context.Context) ([]domain.User, error) {
	return c.users(ctx, "/users/referees")
}

func (c *Client) users(ctx context.Context, path string) ([]domain.User, error) {
	users := []domain.User{}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account
func (c *Client) CreateUser(ctx context.Context, in domain.UserInput) error {
	return c.do(ctx, http.MethodPost, "/users", nil, in, nil)
}

// UpdateUser replaces the editable fields of an account
func (c *Client) UpdateUser(ctx context.Context, id int64, in domain.UserInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, in, nil)
}

// DeleteUser removes an account
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
}

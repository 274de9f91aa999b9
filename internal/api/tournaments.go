package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tennis-web/internal/domain"
)

// ListTournaments returns every tournament
func (c *Client) ListTournaments(ctx context.Context) ([]domain.Tournament, error) {
	tournaments := []domain.Tournament{}
	if err := c.do(ctx, http.MethodGet, "/tournaments/all", nil, nil, &tournaments); err != nil {
		return nil, err
	}
	return tournaments, nil
}

// CreateTournament creates a tournament
func (c *Client) CreateTournament(ctx context.Context, in domain.TournamentInput) error {
	return c.do(ctx, http.MethodPost, "/tournaments", nil, in, nil)
}

// UpdateTournament replaces a tournament's fields
func (c *Client) UpdateTournament(ctx context.Context, id int64, in domain.TournamentInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tournaments/%d", id), nil, in, nil)
}

// DeleteTournament removes a tournament
func (c *Client) DeleteTournament(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tournaments/%d", id), nil, nil, nil)
}

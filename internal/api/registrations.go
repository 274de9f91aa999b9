package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tennis-web/internal/domain"
)

// TournamentRegistrations lists the registrations of a tournament
func (c *Client) TournamentRegistrations(ctx context.Context, tournamentID int64) ([]domain.Registration, error) {
	return c.registrations(ctx, fmt.Sprintf("/registrations/tournament/%d", tournamentID))
}

// PlayerRegistrations lists the registrations of a player
func (c *Client) PlayerRegistrations(ctx context.Context, playerID int64) ([]domain.Registration, error) {
	return c.registrations(ctx, fmt.Sprintf("/registrations/player/%d", playerID))
}

func (c *Client) registrations(ctx context.Context, path string) ([]domain.Registration, error) {
	regs := []domain.Registration{}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// RegisterForTournament enrolls a player in a tournament
func (c *Client) RegisterForTournament(ctx context.Context, playerID, tournamentID int64) error {
	path := fmt.Sprintf("/registrations/player/%d/tournament/%d", playerID, tournamentID)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tennis-web/internal/domain"
)

// ListMatches returns every match
func (c *Client) ListMatches(ctx context.Context) ([]domain.Match, error) {
	return c.matches(ctx, "/matches")
}

// TournamentMatches returns the matches of a tournament
func (c *Client) TournamentMatches(ctx context.Context, tournamentID int64) ([]domain.Match, error) {
	return c.matches(ctx, fmt.Sprintf("/matches/tournament/%d", tournamentID))
}

// PlayerMatches returns the matches a player takes part in
func (c *Client) PlayerMatches(ctx context.Context, playerID int64) ([]domain.Match, error) {
	return c.matches(ctx, fmt.Sprintf("/matches/player/%d", playerID))
}

// RefereeMatches returns the matches assigned to a referee
func (c *Client) RefereeMatches(ctx context.Context, refereeID int64) ([]domain.Match, error) {
	return c.matches(ctx, fmt.Sprintf("/matches/referee/%d", refereeID))
}

func (c *Client) matches(ctx context.Context, path string) ([]domain.Match, error) {
	matches := []domain.Match{}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// CreateMatch schedules a match
func (c *Client) CreateMatch(ctx context.Context, in domain.MatchInput) error {
	return c.do(ctx, http.MethodPost, "/matches", nil, in, nil)
}

// DeleteMatch removes a match
func (c *Client) DeleteMatch(ctx context.Context, matchID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/matches/%d", matchID), nil, nil, nil)
}

// UpdateScore records the overall score of a match
func (c *Client) UpdateScore(ctx context.Context, matchID int64, overallScore string) error {
	query := url.Values{"overallScore": {overallScore}}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/matches/%d/update-score", matchID), query, nil, nil)
}

// Export is a flat-file match listing produced by the backend
type Export struct {
	Format      domain.ExportFormat
	ContentType string
	Data        []byte
}

// ExportMatches downloads the match export for q
func (c *Client) ExportMatches(ctx context.Context, q domain.ExportQuery) (*Export, error) {
	query := url.Values{"format": {string(q.Format)}}
	if q.TournamentID != 0 {
		query.Set("tournamentId", strconv.FormatInt(q.TournamentID, 10))
	}
	if q.PlayerID != 0 {
		query.Set("playerId", strconv.FormatInt(q.PlayerID, 10))
	}
	if q.RefereeID != 0 {
		query.Set("refereeId", strconv.FormatInt(q.RefereeID, 10))
	}

	data, contentType, err := c.text(ctx, http.MethodGet, "/matches/export", query, nil)
	if err != nil {
		return nil, err
	}
	return &Export{Format: q.Format, ContentType: contentType, Data: data}, nil
}

package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/tennis-web/internal/domain"
)

// PlayerMatches is a player's schedule split at the current time
type PlayerMatches struct {
	Upcoming []domain.Match
	Past     []domain.Match
}

// TournamentBoard lists the tournaments a player joined and the ones still open
type TournamentBoard struct {
	Registered []domain.RegisteredTournament
	Available  []domain.Tournament
}

// PlayerService backs the player dashboard
type PlayerService struct {
	backend  Backend
	activity ActivityPublisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewPlayerService creates a new player service
func NewPlayerService(backend Backend, activity ActivityPublisher, logger *slog.Logger) *PlayerService {
	return &PlayerService{
		backend:  backend,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source
func (s *PlayerService) WithClock(now func() time.Time) *PlayerService {
	s.now = now
	return s
}

// Schedule returns the raw match list of the player
func (s *PlayerService) Schedule(ctx context.Context, player domain.User) ([]domain.Match, error) {
	matches, err := s.backend.PlayerMatches(ctx, player.ID)
	if err != nil {
		return nil, fail(err, "Error fetching matches.")
	}
	return matches, nil
}

// Matches returns the player's matches split into upcoming, soonest first,
// and past, most recent first
func (s *PlayerService) Matches(ctx context.Context, player domain.User) (PlayerMatches, error) {
	matches, err := s.Schedule(ctx, player)
	if err != nil {
		return PlayerMatches{Upcoming: []domain.Match{}, Past: []domain.Match{}}, err
	}
	upcoming, past := domain.SplitByStart(matches, s.now())
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].MatchDate.Before(upcoming[j].MatchDate.Time)
	})
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].MatchDate.After(past[j].MatchDate.Time)
	})
	return PlayerMatches{Upcoming: upcoming, Past: past}, nil
}

// Tournaments returns the player's registrations next to the tournaments
// that are still accepting registrations.
func (s *PlayerService) Tournaments(ctx context.Context, player domain.User) (TournamentBoard, error) {
	board := TournamentBoard{Registered: []domain.RegisteredTournament{}, Available: []domain.Tournament{}}

	tournaments, err := s.backend.ListTournaments(ctx)
	if err != nil {
		return board, fail(err, "Error fetching tournaments.")
	}
	registrations, err := s.backend.PlayerRegistrations(ctx, player.ID)
	if err != nil {
		return board, fail(err, "Error fetching tournaments.")
	}

	board.Registered, board.Available = domain.PartitionTournaments(tournaments, registrations, s.now())
	return board, nil
}

// Register signs the player up for a tournament
func (s *PlayerService) Register(ctx context.Context, player domain.User, tournamentID int64) error {
	if tournamentID <= 0 {
		return &Failure{Message: "Error registering for tournament.", Err: domain.ErrInvalidRequest}
	}
	if err := s.backend.RegisterForTournament(ctx, player.ID, tournamentID); err != nil {
		return fail(err, "Error registering for tournament.")
	}

	s.logger.Info("player registered for tournament", "player_id", player.ID, "tournament_id", tournamentID)
	s.activity.Publish(ctx, activity(domain.ActivityTournamentJoined, player, tournamentID))
	return nil
}

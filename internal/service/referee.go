package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tennis-web/internal/domain"
)

// RefereeService backs the referee match list and score entry
type RefereeService struct {
	backend  Backend
	activity ActivityPublisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewRefereeService creates a new referee service
func NewRefereeService(backend Backend, activity ActivityPublisher, logger *slog.Logger) *RefereeService {
	return &RefereeService{
		backend:  backend,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source
func (s *RefereeService) WithClock(now func() time.Time) *RefereeService {
	s.now = now
	return s
}

// Schedule returns the raw match list assigned to the referee
func (s *RefereeService) Schedule(ctx context.Context, referee domain.User) ([]domain.Match, error) {
	matches, err := s.backend.RefereeMatches(ctx, referee.ID)
	if err != nil {
		return nil, fail(err, "Error fetching matches.")
	}
	return matches, nil
}

// Matches fetches the referee's matches and buckets them at the current time
func (s *RefereeService) Matches(ctx context.Context, referee domain.User) (domain.MatchBuckets, error) {
	matches, err := s.Schedule(ctx, referee)
	if err != nil {
		return domain.BucketMatches(nil, s.now()), err
	}
	return domain.BucketMatches(matches, s.now()), nil
}

// UpdateScore records the overall score of a match. Only matches that are
// in action when the request arrives accept a score.
func (s *RefereeService) UpdateScore(ctx context.Context, referee domain.User, matchID int64, score string) error {
	score = strings.TrimSpace(score)
	if score == "" {
		return domain.Invalid("Please enter an overall score in the format 'X-Y'")
	}

	matches, err := s.backend.RefereeMatches(ctx, referee.ID)
	if err != nil {
		return fail(err, "Error updating score.")
	}

	var match *domain.Match
	for i := range matches {
		if matches[i].ID == matchID {
			match = &matches[i]
			break
		}
	}
	if match == nil || domain.ClassifyMatch(*match, s.now()) != domain.MatchInAction {
		return domain.Invalid("Scores can only be entered for matches in action.")
	}

	if err := s.backend.UpdateScore(ctx, matchID, score); err != nil {
		return fail(err, "Error updating score.")
	}

	s.logger.Info("score updated", "match_id", matchID, "referee_id", referee.ID)
	ev := activity(domain.ActivityScoreUpdated, referee, matchID)
	ev.Detail = map[string]string{"overall_score": score}
	s.activity.Publish(ctx, ev)
	return nil
}

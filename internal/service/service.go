package service

import (
	"context"
	"errors"
	"time"

	"github.com/tennis-web/internal/api"
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/session"
)

// Backend is the tennis REST API as used by the services
type Backend interface {
	Login(ctx context.Context, creds api.Credentials) (string, error)
	Register(ctx context.Context, in domain.UserInput) error
	Me(ctx context.Context) (*domain.User, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	ListPlayers(ctx context.Context) ([]domain.User, error)
	ListReferees(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, in domain.UserInput) error
	UpdateUser(ctx context.Context, id int64, in domain.UserInput) error
	DeleteUser(ctx context.Context, id int64) error

	ListTournaments(ctx context.Context) ([]domain.Tournament, error)
	CreateTournament(ctx context.Context, in domain.TournamentInput) error
	UpdateTournament(ctx context.Context, id int64, in domain.TournamentInput) error
	DeleteTournament(ctx context.Context, id int64) error

	TournamentRegistrations(ctx context.Context, tournamentID int64) ([]domain.Registration, error)
	PlayerRegistrations(ctx context.Context, playerID int64) ([]domain.Registration, error)
	RegisterForTournament(ctx context.Context, playerID, tournamentID int64) error

	TournamentMatches(ctx context.Context, tournamentID int64) ([]domain.Match, error)
	PlayerMatches(ctx context.Context, playerID int64) ([]domain.Match, error)
	RefereeMatches(ctx context.Context, refereeID int64) ([]domain.Match, error)
	CreateMatch(ctx context.Context, in domain.MatchInput) error
	DeleteMatch(ctx context.Context, matchID int64) error
	UpdateScore(ctx context.Context, matchID int64, overallScore string) error
	ExportMatches(ctx context.Context, q domain.ExportQuery) (*api.Export, error)
}

// Sessions is the session store as used by the auth service
type Sessions interface {
	Login(ctx context.Context, id, token string, user domain.User) (*session.Session, error)
	UpdateUser(ctx context.Context, id string, user domain.User) (*session.Session, error)
	Logout(ctx context.Context, id string) error
}

// ActivityPublisher receives an event for every successful user action
type ActivityPublisher interface {
	Publish(ctx context.Context, activity domain.Activity)
}

// NopPublisher discards activity
type NopPublisher struct{}

// Publish implements ActivityPublisher
func (NopPublisher) Publish(context.Context, domain.Activity) {}

// Publishers fans an activity out to every publisher in order
type Publishers []ActivityPublisher

// Publish forwards activity to each publisher
func (p Publishers) Publish(ctx context.Context, activity domain.Activity) {
	for _, pub := range p {
		pub.Publish(ctx, activity)
	}
}

// Failure is an error carrying the message to show the user
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// fail resolves the user-facing message for err: validation messages and
// backend bodies are shown as is, anything else becomes fallback.
func fail(err error, fallback string) error {
	var v *domain.ValidationError
	if errors.As(err, &v) {
		return &Failure{Message: v.Message, Err: err}
	}
	return &Failure{Message: api.Message(err, fallback), Err: err}
}

// Message returns the text to display for err
func Message(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	var v *domain.ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	return "Something went wrong. Please try again."
}

func activity(kind string, actor domain.User, subject int64) domain.Activity {
	return domain.Activity{
		Type:      kind,
		UserID:    actor.ID,
		Username:  actor.Username,
		Role:      actor.Role.String(),
		Subject:   subject,
		Timestamp: time.Now(),
	}
}

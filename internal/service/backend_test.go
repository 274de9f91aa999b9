package service_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tennis-web/internal/api"
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func statusErr(code int, body string) error {
	return &api.Error{Method: http.MethodPost, Path: "/test", StatusCode: code, Body: body}
}

// fakeBackend serves canned data and records mutations. errs maps a
// method name to the error it should return.
type fakeBackend struct {
	mu sync.Mutex

	token       string
	me          *domain.User
	users       []domain.User
	players     []domain.User
	referees    []domain.User
	tournaments []domain.Tournament
	regs        []domain.Registration
	matches     []domain.Match
	export      *api.Export
	errs        map[string]error
	calls       map[string]int

	lastUserInput  *domain.UserInput
	lastTournament *domain.TournamentInput
	lastMatch      *domain.MatchInput
	lastScore      string
	lastExport     domain.ExportQuery
	lastToken      string

	// playersHook runs inside ListPlayers before it returns
	playersHook func()
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		token: "tok",
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeBackend) call(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Login(ctx context.Context, creds api.Credentials) (string, error) {
	if err := f.call("Login"); err != nil {
		return "", err
	}
	return f.token, nil
}

func (f *fakeBackend) Register(ctx context.Context, in domain.UserInput) error {
	f.lastUserInput = &in
	return f.call("Register")
}

func (f *fakeBackend) Me(ctx context.Context) (*domain.User, error) {
	f.lastToken = api.TokenFrom(ctx)
	if err := f.call("Me"); err != nil {
		return nil, err
	}
	u := *f.me
	return &u, nil
}

func (f *fakeBackend) ListUsers(ctx context.Context) ([]domain.User, error) {
	return f.users, f.call("ListUsers")
}

func (f *fakeBackend) ListPlayers(ctx context.Context) ([]domain.User, error) {
	err := f.call("ListPlayers")
	f.mu.Lock()
	players, hook := f.players, f.playersHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (f *fakeBackend) ListReferees(ctx context.Context) ([]domain.User, error) {
	return f.referees, f.call("ListReferees")
}

func (f *fakeBackend) CreateUser(ctx context.Context, in domain.UserInput) error {
	f.lastUserInput = &in
	return f.call("CreateUser")
}

func (f *fakeBackend) UpdateUser(ctx context.Context, id int64, in domain.UserInput) error {
	f.lastUserInput = &in
	return f.call("UpdateUser")
}

func (f *fakeBackend) DeleteUser(ctx context.Context, id int64) error {
	return f.call("DeleteUser")
}

func (f *fakeBackend) ListTournaments(ctx context.Context) ([]domain.Tournament, error) {
	return f.tournaments, f.call("ListTournaments")
}

func (f *fakeBackend) CreateTournament(ctx context.Context, in domain.TournamentInput) error {
	f.lastTournament = &in
	return f.call("CreateTournament")
}

func (f *fakeBackend) UpdateTournament(ctx context.Context, id int64, in domain.TournamentInput) error {
	f.lastTournament = &in
	return f.call("UpdateTournament")
}

func (f *fakeBackend) DeleteTournament(ctx context.Context, id int64) error {
	return f.call("DeleteTournament")
}

func (f *fakeBackend) TournamentRegistrations(ctx context.Context, tournamentID int64) ([]domain.Registration, error) {
	return f.regs, f.call("TournamentRegistrations")
}

func (f *fakeBackend) PlayerRegistrations(ctx context.Context, playerID int64) ([]domain.Registration, error) {
	return f.regs, f.call("PlayerRegistrations")
}

func (f *fakeBackend) RegisterForTournament(ctx context.Context, playerID, tournamentID int64) error {
	return f.call("RegisterForTournament")
}

func (f *fakeBackend) TournamentMatches(ctx context.Context, tournamentID int64) ([]domain.Match, error) {
	return f.matches, f.call("TournamentMatches")
}

func (f *fakeBackend) PlayerMatches(ctx context.Context, playerID int64) ([]domain.Match, error) {
	return f.matches, f.call("PlayerMatches")
}

func (f *fakeBackend) RefereeMatches(ctx context.Context, refereeID int64) ([]domain.Match, error) {
	return f.matches, f.call("RefereeMatches")
}

func (f *fakeBackend) CreateMatch(ctx context.Context, in domain.MatchInput) error {
	f.lastMatch = &in
	return f.call("CreateMatch")
}

func (f *fakeBackend) DeleteMatch(ctx context.Context, matchID int64) error {
	return f.call("DeleteMatch")
}

func (f *fakeBackend) UpdateScore(ctx context.Context, matchID int64, overallScore string) error {
	f.lastScore = overallScore
	return f.call("UpdateScore")
}

func (f *fakeBackend) ExportMatches(ctx context.Context, q domain.ExportQuery) (*api.Export, error) {
	f.lastExport = q
	if err := f.call("ExportMatches"); err != nil {
		return nil, err
	}
	return f.export, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Activity
}

func (p *recordingPublisher) Publish(_ context.Context, a domain.Activity) {
	p.mu.Lock()
	p.events = append(p.events, a)
	p.mu.Unlock()
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func intPtr(n int) *int {
	return &n
}

func TestPublishersFanOut(t *testing.T) {
	first, second := &recordingPublisher{}, &recordingPublisher{}
	pub := service.Publishers{first, service.NopPublisher{}, second}

	pub.Publish(context.Background(), domain.Activity{Type: "user.created"})

	assert.Equal(t, []string{"user.created"}, first.types())
	assert.Equal(t, []string{"user.created"}, second.types())
}

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tennis-web/internal/api"
	"github.com/tennis-web/internal/config"
	"github.com/tennis-web/internal/domain"
)

func newTestClient(t *testing.T, h http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return api.NewClient(&config.APIConfig{
		BaseURL: srv.URL + "/api",
		Timeout: 5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoginReturnsRawToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds api.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "rafa", creds.Username)

		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "eyJhbGciOiJIUzI1NiJ9.payload.sig")
	}))

	token, err := client.Login(context.Background(), api.Credentials{Username: "rafa", Password: "vamos"})
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.payload.sig", token)
}

func TestLoginAcceptsJSONStringToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `"abc.def.ghi"`)
	}))
	token, err := client.Login(context.Background(), api.Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestLoginEmptyBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	_, err := client.Login(context.Background(), api.Credentials{})
	assert.ErrorIs(t, err, api.ErrEmptyToken)
}

func TestBearerTokenIsAttached(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id":4,"username":"carlos","role":"REFEREE","firstName":"Carlos","lastName":"Ramos"}`)
	}))

	ctx := api.WithToken(context.Background(), "tok-1")
	u, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), u.ID)
	assert.Equal(t, domain.RoleReferee, u.Role)
}

func TestErrorsCarryStatusAndBody(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "Referee is already scheduled within 2 hours of that match.")
	}))

	err := client.CreateMatch(context.Background(), domain.MatchInput{TournamentID: 1})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "calls are not retried")
	assert.Equal(t, http.StatusInternalServerError, api.StatusCode(err))
	assert.Equal(t, "Referee is already scheduled within 2 hours of that match.", api.Message(err, "Error creating match."))
}

func TestMessageFallbacks(t *testing.T) {
	assert.Equal(t, "fallback", api.Message(errors.New("dial tcp: refused"), "fallback"))
	assert.Equal(t, "fallback", api.Message(&api.Error{StatusCode: 500}, "fallback"))
	assert.Equal(t, "quoted", api.Message(&api.Error{StatusCode: 400, Body: `"quoted"`}, "fallback"))
	assert.Equal(t, "bad date", api.Message(&api.Error{StatusCode: 400, Body: `{"status":400,"message":"bad date"}`}, "fallback"))
	assert.True(t, api.IsUnauthorized(&api.Error{StatusCode: 401}))
	assert.Equal(t, 0, api.StatusCode(errors.New("boom")))
}

func TestUpdateScoreSendsQuery(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/matches/17/update-score", r.URL.Path)
		assert.Equal(t, "6-4", r.URL.Query().Get("overallScore"))
		_, _ = io.WriteString(w, `{"matchId":17,"overallScore":"6-4"}`)
	}))
	require.NoError(t, client.UpdateScore(context.Background(), 17, "6-4"))
}

func TestExportMatchesQuery(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/matches/export", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "csv", q.Get("format"))
		assert.Equal(t, "3", q.Get("tournamentId"))
		assert.False(t, q.Has("playerId"))
		assert.Equal(t, "9", q.Get("refereeId"))
		w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
		_, _ = io.WriteString(w, "Match ID,Tournament Name,Player 1,Player 2,Winner,Match Date,Venue,Overall Score\n")
	}))

	export, err := client.ExportMatches(context.Background(), domain.ExportQuery{Format: domain.ExportCSV, TournamentID: 3, RefereeID: 9})
	require.NoError(t, err)
	assert.Contains(t, string(export.Data), "Match ID,Tournament Name")
	assert.Equal(t, domain.ExportCSV, export.Format)
}

func TestListEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tournaments/all", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"name":"Open","startDate":"2025-05-01","endDate":"2025-05-10","registrationDeadline":"2025-04-20"}]`)
	})
	mux.HandleFunc("/api/registrations/player/5", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":2,"playerId":5,"tournamentId":1,"status":"PENDING","registrationDate":"2025-04-01T09:00:00"}]`)
	})
	mux.HandleFunc("/api/registrations/player/5/tournament/1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = io.WriteString(w, `{"id":3}`)
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	tournaments, err := client.ListTournaments(ctx)
	require.NoError(t, err)
	require.Len(t, tournaments, 1)
	require.NotNil(t, tournaments[0].RegistrationDeadline)
	assert.Equal(t, "2025-04-20", tournaments[0].RegistrationDeadline.String())

	regs, err := client.PlayerRegistrations(ctx, 5)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, domain.RegistrationPending, regs[0].Status)

	require.NoError(t, client.RegisterForTournament(ctx, 5, 1))

	_, err = client.TournamentMatches(ctx, 99)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
}

package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/service"
	"github.com/tennis-web/internal/session"
)

func samplePlayers() []domain.User {
	born := func(y int) *domain.Date {
		d := date(y, time.January, 1)
		return &d
	}
	return []domain.User{
		{ID: 1, Username: "carlos", Nationality: "Spain", Ranking: intPtr(2), BirthDate: born(2003)},
		{ID: 2, Username: "jannik", Nationality: "Italy", Ranking: intPtr(1), BirthDate: born(2001)},
		{ID: 3, Username: "rookie", Nationality: "Spain"},
	}
}

func usernames(players []domain.User) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.Username)
	}
	return out
}

func TestDirectoryFilterAndReset(t *testing.T) {
	backend := newFakeBackend()
	backend.players = samplePlayers()
	dir := service.NewPlayerDirectory(backend, testLogger()).WithClock(clock)
	ctx := context.Background()

	list, err := dir.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, list.Players, 3)

	list, err = dir.Filter(ctx, "s1", service.FilterForm{Nationality: "spa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"carlos", "rookie"}, usernames(list.Players))
	assert.Equal(t, 3, list.Total)

	list, err = dir.Filter(ctx, "s1", service.FilterForm{MaxRanking: "100"})
	require.NoError(t, err)
	assert.Equal(t, []string{"carlos", "jannik"}, usernames(list.Players), "unranked player fails closed")

	// the backend list changes, reset must still show the copy it loaded
	backend.players = backend.players[:1]
	list = dir.Reset("s1")
	assert.Equal(t, []string{"carlos", "jannik", "rookie"}, usernames(list.Players))
	assert.Equal(t, service.FilterForm{}, list.Form)
	assert.Empty(t, list.Error)
	assert.Equal(t, 1, backend.count("ListPlayers"))
}

func TestDirectoryInvalidFilterKeepsList(t *testing.T) {
	backend := newFakeBackend()
	backend.players = samplePlayers()
	dir := service.NewPlayerDirectory(backend, testLogger()).WithClock(clock)
	ctx := context.Background()

	_, err := dir.Load(ctx, "s1")
	require.NoError(t, err)
	_, err = dir.Filter(ctx, "s1", service.FilterForm{Nationality: "ital"})
	require.NoError(t, err)

	tests := []struct {
		form service.FilterForm
		want string
	}{
		{service.FilterForm{MinAge: "10", MaxAge: "20"}, "Age must be at least 14"},
		{service.FilterForm{MinRanking: "50", MaxRanking: "10"}, "Minimum ranking cannot be greater than maximum ranking"},
		{service.FilterForm{MinRanking: "abc"}, "Filter values must be whole numbers"},
	}
	for _, tt := range tests {
		list, err := dir.Filter(ctx, "s1", tt.form)
		require.Error(t, err)
		assert.Equal(t, tt.want, list.Error)
		assert.Equal(t, tt.form, list.Form)
		assert.Equal(t, []string{"jannik"}, usernames(list.Players))
	}
}

func TestDirectoryAgeFilter(t *testing.T) {
	backend := newFakeBackend()
	backend.players = samplePlayers()
	dir := service.NewPlayerDirectory(backend, testLogger()).WithClock(clock)

	list, err := dir.Filter(context.Background(), "s1", service.FilterForm{MinAge: "22"})
	require.NoError(t, err)
	assert.Equal(t, []string{"jannik"}, usernames(list.Players))
	assert.Equal(t, 1, backend.count("ListPlayers"), "filter on an unloaded session loads once")
}

func TestDirectorySessionsAreIsolated(t *testing.T) {
	backend := newFakeBackend()
	backend.players = samplePlayers()
	dir := service.NewPlayerDirectory(backend, testLogger()).WithClock(clock)
	ctx := context.Background()

	_, err := dir.Load(ctx, "a")
	require.NoError(t, err)
	_, err = dir.Load(ctx, "b")
	require.NoError(t, err)

	_, err = dir.Filter(ctx, "a", service.FilterForm{Nationality: "italy"})
	require.NoError(t, err)

	assert.Len(t, dir.Reset("b").Players, 3)
}

func TestDirectoryDiscardsStaleLoad(t *testing.T) {
	backend := newFakeBackend()
	backend.players = []domain.User{{ID: 1, Username: "old"}}
	dir := service.NewPlayerDirectory(backend, testLogger()).WithClock(clock)
	ctx := context.Background()

	backend.playersHook = func() {
		backend.mu.Lock()
		backend.playersHook = nil
		backend.players = []domain.User{{ID: 2, Username: "new"}}
		backend.mu.Unlock()

		// a newer load starts and finishes while the first is in flight
		_, err := dir.Load(ctx, "s1")
		require.NoError(t, err)
	}

	list, err := dir.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, usernames(list.Players))
	assert.Equal(t, []string{"new"}, usernames(dir.Reset("s1").Players))
}

func TestDirectoryLoadError(t *testing.T) {
	backend := newFakeBackend()
	backend.errs["ListPlayers"] = statusErr(http.StatusInternalServerError, "")
	dir := service.NewPlayerDirectory(backend, testLogger())

	list, err := dir.Load(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, "Error fetching players.", list.Error)
	assert.Empty(t, list.Players)
}

func TestDirectoryDeleteIdle(t *testing.T) {
	backend := newFakeBackend()
	backend.players = samplePlayers()
	now := testNow
	dir := service.NewPlayerDirectory(backend, testLogger()).WithClock(func() time.Time { return now })
	ctx := context.Background()

	_, err := dir.Load(ctx, "old")
	require.NoError(t, err)
	now = now.Add(time.Hour)
	_, err = dir.Load(ctx, "fresh")
	require.NoError(t, err)

	n, err := dir.DeleteIdle(ctx, testNow.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	dir.Forget("fresh")
	n, err = dir.DeleteIdle(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDirectoryForgetsOnLogout(t *testing.T) {
	backend := newFakeBackend()
	backend.players = samplePlayers()
	dir := service.NewPlayerDirectory(backend, testLogger())
	ctx := context.Background()

	_, err := dir.Load(ctx, "s1")
	require.NoError(t, err)
	dir.HandleSessionEvent(session.Event{Kind: session.EventUserUpdated, SessionID: "s1"})
	_, err = dir.Filter(ctx, "s1", service.FilterForm{})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.count("ListPlayers"))

	dir.HandleSessionEvent(session.Event{Kind: session.EventLoggedOut, SessionID: "s1"})
	_, err = dir.Filter(ctx, "s1", service.FilterForm{})
	require.NoError(t, err)
	assert.Equal(t, 2, backend.count("ListPlayers"), "list is reloaded after logout")
}

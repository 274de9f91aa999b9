package redis_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/redis"
	"github.com/tennis-web/internal/session"
	"github.com/tennis-web/internal/session/sessiontest"
)

func newStorage(t *testing.T, ttl time.Duration) (*redis.SessionStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	storage := redis.NewSessionStorageWithClient(client, "test", ttl, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = storage.Close() })
	return storage, mr
}

func TestSessionStorage(t *testing.T) {
	storage, _ := newStorage(t, time.Hour)
	sessiontest.RunStorageTests(t, storage)
}

func TestSessionStorageLayout(t *testing.T) {
	storage, mr := newStorage(t, time.Hour)
	ctx := context.Background()

	user := domain.User{ID: 5, Username: "carlos", Role: domain.RoleReferee}
	require.NoError(t, storage.Save(ctx, "abc", session.Snapshot{Token: "tok", User: &user}))

	assert.True(t, mr.Exists("test:session:abc"))
	assert.Equal(t, "tok", mr.HGet("test:session:abc", "token"))
	assert.Contains(t, mr.HGet("test:session:abc", "user"), `"role":"REFEREE"`)
	assert.Equal(t, time.Hour, mr.TTL("test:session:abc"))
}

func TestSessionStorageExpires(t *testing.T) {
	storage, mr := newStorage(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "abc", session.Snapshot{Token: "tok", User: &domain.User{ID: 1}}))
	mr.FastForward(2 * time.Minute)

	_, err := storage.Load(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

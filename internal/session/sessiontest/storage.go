// Package sessiontest holds the behaviour every session storage backend
// must share.
package sessiontest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/session"
)

// RunStorageTests exercises Load/Save/Delete and, when supported, DeleteIdle
func RunStorageTests(t *testing.T, storage session.Storage) {
	ctx := context.Background()
	ranking := 12
	user := domain.User{ID: 7, Username: "rafa", Role: domain.RolePlayer, Ranking: &ranking, Nationality: "Spain"}

	t.Run("missing", func(t *testing.T) {
		_, err := storage.Load(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, storage.Save(ctx, "s1", session.Snapshot{Token: "tok", User: &user, UpdatedAt: time.Now()}))

		snap, err := storage.Load(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, snap.Active())
		assert.Equal(t, "tok", snap.Token)
		require.NotNil(t, snap.User)
		assert.Equal(t, user.Username, snap.User.Username)
		assert.Equal(t, domain.RolePlayer, snap.User.Role)
		require.NotNil(t, snap.User.Ranking)
		assert.Equal(t, 12, *snap.User.Ranking)
	})

	t.Run("overwrite", func(t *testing.T) {
		updated := user
		updated.Email = "rafa@example.com"
		require.NoError(t, storage.Save(ctx, "s1", session.Snapshot{Token: "tok", User: &updated, UpdatedAt: time.Now()}))

		snap, err := storage.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "rafa@example.com", snap.User.Email)
	})

	t.Run("token without user is inactive", func(t *testing.T) {
		require.NoError(t, storage.Save(ctx, "s2", session.Snapshot{Token: "tok", UpdatedAt: time.Now()}))
		snap, err := storage.Load(ctx, "s2")
		require.NoError(t, err)
		assert.False(t, snap.Active())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, "s1"))
		_, err := storage.Load(ctx, "s1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		assert.NoError(t, storage.Delete(ctx, "never-existed"))
	})

	sweeper, ok := storage.(session.Sweeper)
	if !ok {
		return
	}
	t.Run("delete idle", func(t *testing.T) {
		old := time.Now().Add(-48 * time.Hour)
		require.NoError(t, storage.Save(ctx, "old", session.Snapshot{Token: "a", User: &user, UpdatedAt: old}))
		require.NoError(t, storage.Save(ctx, "fresh", session.Snapshot{Token: "b", User: &user, UpdatedAt: time.Now()}))

		n, err := sweeper.DeleteIdle(ctx, time.Now().Add(-24*time.Hour))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		_, err = storage.Load(ctx, "old")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		_, err = storage.Load(ctx, "fresh")
		assert.NoError(t, err)
	})
}

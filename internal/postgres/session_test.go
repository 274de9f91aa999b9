package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tennis-web/internal/config"
	"github.com/tennis-web/internal/postgres"
	"github.com/tennis-web/internal/session/sessiontest"
)

// TestSessionStorage runs against a live database when TENNIS_WEB_TEST_PG_HOST is set
func TestSessionStorage(t *testing.T) {
	host := os.Getenv("TENNIS_WEB_TEST_PG_HOST")
	if host == "" {
		t.Skip("TENNIS_WEB_TEST_PG_HOST not set")
	}

	cfg := config.DefaultConfig().Postgres
	cfg.Host = host
	cfg.User = os.Getenv("TENNIS_WEB_TEST_PG_USER")
	cfg.Password = os.Getenv("TENNIS_WEB_TEST_PG_PASSWORD")
	cfg.Database = os.Getenv("TENNIS_WEB_TEST_PG_DATABASE")

	storage, err := postgres.NewSessionStorage(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(storage.Close)

	ctx := context.Background()
	require.NoError(t, storage.RunMigrations(ctx))
	_, err = storage.Pool().Exec(ctx, `TRUNCATE web_sessions`)
	require.NoError(t, err)

	sessiontest.RunStorageTests(t, storage)
}

package sqlite_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tennis-web/internal/session/sessiontest"
	"github.com/tennis-web/internal/sqlite"
)

func TestSessionStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	storage, err := sqlite.NewSessionStorage(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	sessiontest.RunStorageTests(t, storage)
}

func TestSessionStorageRequiresPath(t *testing.T) {
	_, err := sqlite.NewSessionStorage("  ", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/session"
	_ "modernc.org/sqlite"
)

// SessionStorage keeps browser sessions in a local sqlite file
type SessionStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSessionStorage opens (and migrates) the database at path
func NewSessionStorage(path string, logger *slog.Logger) (*SessionStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SessionStorage{db: db, logger: logger}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database
func (s *SessionStorage) Close() error {
	return s.db.Close()
}

// Ping checks the database
func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SessionStorage) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS web_sessions (
			id TEXT PRIMARY KEY,
			token TEXT NOT NULL DEFAULT '',
			user_json TEXT NOT NULL DEFAULT '',
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_web_sessions_updated ON web_sessions(updated_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// Load implements session.Storage
func (s *SessionStorage) Load(ctx context.Context, id string) (session.Snapshot, error) {
	var (
		token, user string
		updatedAt   int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_json, updated_at FROM web_sessions WHERE id = ?`, id,
	).Scan(&token, &user, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Snapshot{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("load session: %w", err)
	}
	return session.Snapshot{
		Token:     token,
		User:      session.DecodeUser(user),
		UpdatedAt: time.Unix(updatedAt, 0),
	}, nil
}

// Save implements session.Storage
func (s *SessionStorage) Save(ctx context.Context, id string, snap session.Snapshot) error {
	user, err := session.EncodeUser(snap.User)
	if err != nil {
		return err
	}
	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO web_sessions (id, token, user_json, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_json = excluded.user_json,
			updated_at = excluded.updated_at`,
		id, snap.Token, user, updatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete implements session.Storage
func (s *SessionStorage) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteIdle implements session.Sweeper
func (s *SessionStorage) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE updated_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}
	return res.RowsAffected()
}

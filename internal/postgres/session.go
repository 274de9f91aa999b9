package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tennis-web/internal/config"
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/session"
)

// SessionStorage keeps browser sessions in a PostgreSQL table
type SessionStorage struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewSessionStorage creates a connection pool and returns a session storage
func NewSessionStorage(cfg *config.PostgresConfig, logger *slog.Logger) (*SessionStorage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &SessionStorage{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (s *SessionStorage) Close() {
	s.pool.Close()
}

// Pool returns the underlying connection pool
func (s *SessionStorage) Pool() *pgxpool.Pool {
	return s.pool
}

// Ping checks the connection
func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// RunMigrations creates the session table
func (s *SessionStorage) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS web_sessions (
			id VARCHAR(64) PRIMARY KEY,
			token TEXT NOT NULL DEFAULT '',
			user_json TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_web_sessions_updated ON web_sessions(updated_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	s.logger.Info("database migrations completed")
	return nil
}

// Load implements session.Storage
func (s *SessionStorage) Load(ctx context.Context, id string) (session.Snapshot, error) {
	query := `SELECT token, user_json, updated_at FROM web_sessions WHERE id = $1`

	var (
		token, user string
		updatedAt   time.Time
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(&token, &user, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.Snapshot{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("loading session: %w", err)
	}
	return session.Snapshot{Token: token, User: session.DecodeUser(user), UpdatedAt: updatedAt}, nil
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

	query := `
		INSERT INTO web_sessions (id, token, user_json, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			token = EXCLUDED.token,
			user_json = EXCLUDED.user_json,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.pool.Exec(ctx, query, id, snap.Token, user, updatedAt); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Delete implements session.Storage
func (s *SessionStorage) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM web_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteIdle implements session.Sweeper
func (s *SessionStorage) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.pool.Exec(ctx, `DELETE FROM web_sessions WHERE updated_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("deleting idle sessions: %w", err)
	}
	return result.RowsAffected(), nil
}

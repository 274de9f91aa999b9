package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tennis-web/internal/config"
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/session"
)

// Hash fields of a stored session
const (
	fieldToken     = "token"
	fieldUser      = "user"
	fieldUpdatedAt = "updated_at"
)

// SessionStorage keeps browser sessions in Redis hashes that expire after the session TTL
type SessionStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewSessionStorage connects to Redis and returns a session storage
func NewSessionStorage(cfg *config.RedisConfig, ttl time.Duration, logger *slog.Logger) (*SessionStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewSessionStorageWithClient(client, cfg.KeyPrefix, ttl, logger), nil
}

// NewSessionStorageWithClient wraps an existing client
func NewSessionStorageWithClient(client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *SessionStorage {
	return &SessionStorage{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

// Close closes the Redis connection
func (s *SessionStorage) Close() error {
	return s.client.Close()
}

// Ping checks the connection
func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// sessionKey returns the Redis key for a session hash
func (s *SessionStorage) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

// Load implements session.Storage
func (s *SessionStorage) Load(ctx context.Context, id string) (session.Snapshot, error) {
	fields, err := s.client.HGetAll(ctx, s.sessionKey(id)).Result()
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("loading session: %w", err)
	}
	if len(fields) == 0 {
		return session.Snapshot{}, domain.ErrSessionNotFound
	}

	snap := session.Snapshot{
		Token: fields[fieldToken],
		User:  session.DecodeUser(fields[fieldUser]),
	}
	if ts, err := strconv.ParseInt(fields[fieldUpdatedAt], 10, 64); err == nil {
		snap.UpdatedAt = time.Unix(ts, 0)
	}
	return snap, nil
}

// Save implements session.Storage. Every save restarts the expiry.
func (s *SessionStorage) Save(ctx context.Context, id string, snap session.Snapshot) error {
	user, err := session.EncodeUser(snap.User)
	if err != nil {
		return err
	}
	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	key := s.sessionKey(id)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldToken, snap.Token,
			fieldUser, user,
			fieldUpdatedAt, strconv.FormatInt(updatedAt.Unix(), 10),
		)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Delete implements session.Storage
func (s *SessionStorage) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

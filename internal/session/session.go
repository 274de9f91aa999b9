package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tennis-web/internal/domain"
)

// Snapshot is what a storage backend persists for one browser session.
// Token and User are stored as separate fields; either may be missing.
type Snapshot struct {
	Token     string
	User      *domain.User
	UpdatedAt time.Time
}

// Active reports whether both halves of the session are present
func (s Snapshot) Active() bool {
	return s.Token != "" && s.User != nil
}

// Storage persists session snapshots keyed by session id
type Storage interface {
	// Load returns domain.ErrSessionNotFound when nothing is stored for id
	Load(ctx context.Context, id string) (Snapshot, error)
	Save(ctx context.Context, id string, snap Snapshot) error
	Delete(ctx context.Context, id string) error
}

// Sweeper is implemented by storages without native expiry
type Sweeper interface {
	DeleteIdle(ctx context.Context, before time.Time) (int64, error)
}

// Session is an active, restored browser session
type Session struct {
	ID    string
	Token string
	User  domain.User
}

// EventKind identifies a session change
type EventKind string

const (
	EventLoggedIn    EventKind = "logged_in"
	EventLoggedOut   EventKind = "logged_out"
	EventUserUpdated EventKind = "user_updated"
)

// Event is delivered to subscribers after a session change was persisted
type Event struct {
	Kind      EventKind    `json:"kind"`
	SessionID string       `json:"-"`
	User      *domain.User `json:"user,omitempty"`
	At        time.Time    `json:"at"`
}

// Store owns login, logout and restore of browser sessions
type Store struct {
	storage Storage
	logger  *slog.Logger

	mu        sync.RWMutex
	listeners map[int]func(Event)
	nextID    int
}

// NewStore creates a session store over storage
func NewStore(storage Storage, logger *slog.Logger) *Store {
	return &Store{
		storage:   storage,
		logger:    logger,
		listeners: make(map[int]func(Event)),
	}
}

// NewID returns a fresh opaque session id
func NewID() string {
	return uuid.NewString()
}

// Restore returns the persisted session for id. The token is not checked
// against the backend; domain.ErrNotAuthenticated is returned unless both
// token and user are stored.
func (s *Store) Restore(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, domain.ErrNotAuthenticated
	}
	snap, err := s.storage.Load(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if !snap.Active() {
		return nil, domain.ErrNotAuthenticated
	}
	return &Session{ID: id, Token: snap.Token, User: *snap.User}, nil
}

// Login persists token and user for id and makes the session current
func (s *Store) Login(ctx context.Context, id, token string, user domain.User) (*Session, error) {
	if id == "" || token == "" {
		return nil, domain.ErrInvalidRequest
	}
	if err := s.storage.Save(ctx, id, Snapshot{Token: token, User: &user, UpdatedAt: time.Now()}); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	s.logger.Info("session started", "session_id", id, "user_id", user.ID, "role", user.Role.String())
	s.notify(Event{Kind: EventLoggedIn, SessionID: id, User: &user, At: time.Now()})
	return &Session{ID: id, Token: token, User: user}, nil
}

// UpdateUser replaces the user snapshot while keeping the stored token
func (s *Store) UpdateUser(ctx context.Context, id string, user domain.User) (*Session, error) {
	current, err := s.Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Save(ctx, id, Snapshot{Token: current.Token, User: &user, UpdatedAt: time.Now()}); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	s.notify(Event{Kind: EventUserUpdated, SessionID: id, User: &user, At: time.Now()})
	return &Session{ID: id, Token: current.Token, User: user}, nil
}

// Logout removes everything persisted for id
func (s *Store) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	s.logger.Info("session ended", "session_id", id)
	s.notify(Event{Kind: EventLoggedOut, SessionID: id, At: time.Now()})
	return nil
}

// Subscribe registers fn for every session event. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(ev Event) {
	s.mu.RLock()
	listeners := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// EncodeUser serializes a user snapshot for storage
func EncodeUser(u *domain.User) (string, error) {
	if u == nil {
		return "", nil
	}
	data, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encoding user snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeUser parses a stored user snapshot. A blank or unreadable value
// yields nil, which leaves the session inactive.
func DecodeUser(raw string) *domain.User {
	if raw == "" {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/session"
)

// FilterForm holds the raw player filter inputs
type FilterForm struct {
	MinRanking  string
	MaxRanking  string
	Nationality string
	MinAge      string
	MaxAge      string
}

// Parse converts the form into a filter. Blank inputs are inactive.
func (f FilterForm) Parse() (domain.PlayerFilter, error) {
	var (
		filter = domain.PlayerFilter{Nationality: strings.TrimSpace(f.Nationality)}
		err    error
	)
	if filter.MinRanking, err = optionalInt(f.MinRanking); err != nil {
		return filter, err
	}
	if filter.MaxRanking, err = optionalInt(f.MaxRanking); err != nil {
		return filter, err
	}
	if filter.MinAge, err = optionalInt(f.MinAge); err != nil {
		return filter, err
	}
	if filter.MaxAge, err = optionalInt(f.MaxAge); err != nil {
		return filter, err
	}
	return filter, nil
}

func optionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.Invalid("Filter values must be whole numbers")
	}
	return &n, nil
}

// PlayerList is what the referee players tab renders
type PlayerList struct {
	Players []domain.User
	Total   int
	Form    FilterForm
	Error   string
}

type playerView struct {
	generation uint64
	all        []domain.User
	visible    []domain.User
	form       FilterForm
	touched    time.Time
}

func (v *playerView) list(errMsg string) PlayerList {
	return PlayerList{
		Players: v.visible,
		Total:   len(v.all),
		Form:    v.form,
		Error:   errMsg,
	}
}

// PlayerDirectory keeps the player list each referee session fetched so
// that filtering and reset work on that copy without going back to the
// backend. Loads are tagged with a generation; a load that completes after
// a newer one started is discarded.
type PlayerDirectory struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	views map[string]*playerView
}

// NewPlayerDirectory creates an empty directory
func NewPlayerDirectory(backend Backend, logger *slog.Logger) *PlayerDirectory {
	return &PlayerDirectory{
		backend: backend,
		logger:  logger,
		now:     time.Now,
		views:   make(map[string]*playerView),
	}
}

// WithClock replaces the time source used for ages
func (d *PlayerDirectory) WithClock(now func() time.Time) *PlayerDirectory {
	d.now = now
	return d
}

func (d *PlayerDirectory) view(sessionID string) *playerView {
	v, ok := d.views[sessionID]
	if !ok {
		v = &playerView{all: []domain.User{}, visible: []domain.User{}}
		d.views[sessionID] = v
	}
	v.touched = d.now()
	return v
}

// Load fetches the full player list for the session and clears any filter
func (d *PlayerDirectory) Load(ctx context.Context, sessionID string) (PlayerList, error) {
	d.mu.Lock()
	v := d.view(sessionID)
	v.generation++
	generation := v.generation
	d.mu.Unlock()

	players, err := d.backend.ListPlayers(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		err = fail(err, "Error fetching players.")
		return v.list(Message(err)), err
	}
	if current, ok := d.views[sessionID]; !ok || current != v || v.generation != generation {
		d.logger.Debug("discarding stale player list", "session_id", sessionID, "generation", generation)
		return v.list(""), nil
	}

	if players == nil {
		players = []domain.User{}
	}
	v.all = players
	v.visible = players
	v.form = FilterForm{}
	return v.list(""), nil
}

// Filter validates form and applies it to the stored list. An invalid
// filter leaves the visible list untouched and reports the error.
func (d *PlayerDirectory) Filter(ctx context.Context, sessionID string, form FilterForm) (PlayerList, error) {
	d.mu.Lock()
	_, loaded := d.views[sessionID]
	d.mu.Unlock()
	if !loaded {
		if _, err := d.Load(ctx, sessionID); err != nil {
			return PlayerList{Form: form, Players: []domain.User{}, Error: Message(err)}, err
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.view(sessionID)

	filter, err := form.Parse()
	if err == nil {
		err = filter.Validate()
	}
	if err != nil {
		list := v.list(Message(err))
		list.Form = form
		return list, err
	}

	v.form = form
	v.visible = filter.Apply(v.all, d.now())
	return v.list(""), nil
}

// Reset restores the list exactly as last loaded and clears the filter
func (d *PlayerDirectory) Reset(sessionID string) PlayerList {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := d.view(sessionID)
	v.visible = v.all
	v.form = FilterForm{}
	return v.list("")
}

// Forget drops the stored list of a session
func (d *PlayerDirectory) Forget(sessionID string) {
	d.mu.Lock()
	delete(d.views, sessionID)
	d.mu.Unlock()
}

// DeleteIdle drops lists not touched since before
func (d *PlayerDirectory) DeleteIdle(_ context.Context, before time.Time) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var n int64
	for id, v := range d.views {
		if v.touched.Before(before) {
			delete(d.views, id)
			n++
		}
	}
	return n, nil
}

// HandleSessionEvent drops the stored list when its session logs out
func (d *PlayerDirectory) HandleSessionEvent(ev session.Event) {
	if ev.Kind == session.EventLoggedOut {
		d.Forget(ev.SessionID)
	}
}

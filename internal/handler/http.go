package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/tennis-web/internal/config"
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/guard"
	"github.com/tennis-web/internal/service"
	"github.com/tennis-web/internal/session"
	"github.com/tennis-web/internal/websocket"
)

// Services groups the use cases the pages call
type Services struct {
	Auth      *service.AuthService
	Player    *service.PlayerService
	Referee   *service.RefereeService
	Directory *service.PlayerDirectory
	Admin     *service.AdminService
}

// ReadyFunc reports whether a dependency is usable
type ReadyFunc func(ctx context.Context) error

// Handler serves the tennis web pages
type Handler struct {
	services  Services
	sessions  *session.Store
	hub       *websocket.Hub
	templates *Templates
	static    fs.FS
	cookie    cookieSettings
	origins   []string
	ready     map[string]ReadyFunc
	logger    *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, sessions *session.Store, hub *websocket.Hub, cfg *config.Config, logger *slog.Logger) (*Handler, error) {
	templates, err := NewTemplates(templateFS)
	if err != nil {
		return nil, err
	}
	static, err := staticAssets(templateFS)
	if err != nil {
		return nil, err
	}
	return &Handler{
		services:  services,
		sessions:  sessions,
		hub:       hub,
		templates: templates,
		static:    static,
		cookie: cookieSettings{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			MaxAge: int(cfg.Session.TTL.Seconds()),
		},
		origins: cfg.CORS.AllowedOrigins,
		ready:   make(map[string]ReadyFunc),
		logger:  logger,
	}, nil
}

// staticAssets returns the templates/static subtree of files
func staticAssets(files fs.FS) (fs.FS, error) {
	const dir = "templates/static"
	if info, err := fs.Stat(files, dir); err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("static assets: %s is not a directory", dir)
	}
	static, err := fs.Sub(files, dir)
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	return static, nil
}

// AddReadinessCheck registers a dependency probed by /ready
func (h *Handler) AddReadinessCheck(name string, check ReadyFunc) {
	h.ready[name] = check
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	r.Use(h.withSession)

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.static))))

	// Public pages
	r.Get("/", h.Home)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(requireAccess(guard.Authenticated()))
		r.Get("/profile", h.ProfilePage)
		r.Post("/profile", h.UpdateProfile)
		r.Get("/ws", h.HandleWebSocket)
	})

	r.Route("/player", func(r chi.Router) {
		r.Use(requireAccess(guard.RoleIn(domain.RolePlayer)))
		r.Get("/", h.PlayerDashboard)
		r.Post("/tournaments/{tournamentID}/register", h.RegisterForTournament)
		r.Get("/schedule.ics", h.PlayerSchedule)
	})

	r.Route("/referee", func(r chi.Router) {
		r.Use(requireAccess(guard.RoleIn(domain.RoleReferee)))
		r.Get("/", h.RefereeDashboard)
		r.Post("/matches/{matchID}/score", h.UpdateScore)
		r.Post("/players/filter", h.FilterPlayers)
		r.Post("/players/reset", h.ResetPlayers)
		r.Get("/schedule.ics", h.RefereeSchedule)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAccess(guard.RoleIn(domain.RoleAdmin)))
		r.Get("/", h.AdminDashboard)

		r.Post("/users", h.CreateUser)
		r.Post("/users/{userID}", h.UpdateUser)
		r.Post("/users/{userID}/delete", h.DeleteUser)

		r.Post("/tournaments", h.CreateTournament)
		r.Post("/tournaments/{tournamentID}", h.UpdateTournament)
		r.Post("/tournaments/{tournamentID}/delete", h.DeleteTournament)

		r.Post("/matches", h.CreateMatch)
		r.Post("/matches/{matchID}/delete", h.DeleteMatch)

		r.Get("/export", h.ExportMatches)
	})

	return r
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// render writes a page, logging template failures
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	if err := h.templates.Render(w, status, name, data); err != nil {
		h.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ReadyCheck probes every registered dependency
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	failed := map[string]string{}
	for name, check := range h.ready {
		if err := check(r.Context()); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "unavailable", "failed": failed})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// HandleWebSocket attaches the connection to the caller's session
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWs(currentSession(r.Context()).ID, w, r)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func formID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(name)), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func queryID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get(name)), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// redirectWithNotice sends the browser to path with a flash notice code
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	http.Redirect(w, r, path+sep+"notice="+notice, http.StatusSeeOther)
}

// tab returns the requested tab when it is one of allowed, else the first
func tab(r *http.Request, allowed ...string) string {
	requested := r.URL.Query().Get("tab")
	for _, t := range allowed {
		if t == requested {
			return t
		}
	}
	return allowed[0]
}

// safeReturn keeps redirects on this site
func safeReturn(path, fallback string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.Contains(path, "\\") {
		return fallback
	}
	return path
}

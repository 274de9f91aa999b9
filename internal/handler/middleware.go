package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/tennis-web/internal/api"
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/guard"
	"github.com/tennis-web/internal/session"
)

type sessionKey struct{}

func currentSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}

func currentUser(ctx context.Context) *domain.User {
	if sess := currentSession(ctx); sess != nil {
		return &sess.User
	}
	return nil
}

// withSession restores the session named by the cookie and attaches its
// token to the request context for backend calls
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.cookie.Name)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := h.sessions.Restore(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, domain.ErrNotAuthenticated) {
				h.logger.Error("failed to restore session", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		ctx = api.WithToken(ctx, sess.Token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAccess redirects requests the guard does not allow
func requireAccess(req guard.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := req.Decide(currentUser(r.Context()))
			if decision != guard.Allow {
				http.Redirect(w, r, decision.Location(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// cookieSettings describes the session cookie
type cookieSettings struct {
	Name   string
	Secure bool
	MaxAge int
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    id,
		Path:     "/",
		MaxAge:   h.cookie.MaxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

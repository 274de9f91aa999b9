package handler

import (
	"net/http"
	"strings"

	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/service"
	"github.com/tennis-web/internal/session"
)

func baseView(r *http.Request, title string) BaseView {
	return BaseView{
		Title:  title,
		User:   currentUser(r.Context()),
		Notice: flashMessage(r.URL.Query().Get("notice")),
	}
}

// Home renders the landing page
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "home.html", baseView(r, "Tennis Tournaments"))
}

// LoginPage renders the login form
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login.html", AuthView{BaseView: baseView(r, "Login")})
}

// Login authenticates and starts a fresh session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))

	sess, err := h.services.Auth.Login(r.Context(), session.NewID(), username, r.FormValue("password"))
	if err != nil {
		if !service.IsFailure(err) {
			h.logger.Error("login failed", "error", err)
		}
		view := AuthView{BaseView: baseView(r, "Login"), Username: username}
		view.Error = service.Message(err)
		h.render(w, http.StatusOK, "login.html", view)
		return
	}

	if previous := currentSession(r.Context()); previous != nil {
		if err := h.sessions.Logout(r.Context(), previous.ID); err != nil {
			h.logger.Warn("failed to drop previous session", "error", err)
		}
	}

	h.setSessionCookie(w, sess.ID)
	http.Redirect(w, r, sess.User.Role.HomePath(), http.StatusSeeOther)
}

// RegisterPage renders the sign-up form
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "register.html", AuthView{BaseView: baseView(r, "Register")})
}

// Register creates a player account
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := service.RegisterForm{
		Username:    r.FormValue("username"),
		Password:    r.FormValue("password"),
		Email:       r.FormValue("email"),
		FirstName:   r.FormValue("firstName"),
		LastName:    r.FormValue("lastName"),
		PhoneNumber: r.FormValue("phoneNumber"),
	}

	if err := h.services.Auth.Register(r.Context(), form); err != nil {
		view := AuthView{
			BaseView: baseView(r, "Register"),
			Username: form.Username,
			Email:    form.Email,
			First:    form.FirstName,
			Last:     form.LastName,
			Phone:    form.PhoneNumber,
		}
		view.Error = service.Message(err)
		h.render(w, http.StatusOK, "register.html", view)
		return
	}
	redirectWithNotice(w, r, "/login", noticeRegistered)
}

// Logout ends the session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Auth.Logout(r.Context(), currentSession(r.Context())); err != nil {
		h.logger.Error("logout failed", "error", err)
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ProfilePage renders the standalone profile form
func (h *Handler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	view := struct {
		BaseView
		Profile ProfileView
	}{
		BaseView: baseView(r, "Profile"),
		Profile:  newProfileView(*user, "/profile"),
	}
	h.render(w, http.StatusOK, "profile.html", view)
}

// UpdateProfile saves the profile form and returns to where it was posted from
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := currentSession(r.Context())
	returnTo := safeReturn(r.FormValue("return"), "/profile")

	form := service.ProfileForm{
		Username:    r.FormValue("username"),
		Email:       r.FormValue("email"),
		FirstName:   r.FormValue("firstName"),
		LastName:    r.FormValue("lastName"),
		PhoneNumber: r.FormValue("phoneNumber"),
		Password:    r.FormValue("password"),
	}
	if role, err := domain.ParseRole(r.FormValue("role")); err == nil {
		form.Role = role
	}

	if _, err := h.services.Auth.UpdateProfile(r.Context(), sess, form); err != nil {
		user := sess.User
		user.Username = form.Username
		user.Email = form.Email
		user.FirstName = form.FirstName
		user.LastName = form.LastName
		user.PhoneNumber = form.PhoneNumber

		view := struct {
			BaseView
			Profile ProfileView
		}{
			BaseView: baseView(r, "Profile"),
			Profile:  newProfileView(user, returnTo),
		}
		view.Error = service.Message(err)
		h.render(w, http.StatusOK, "profile.html", view)
		return
	}
	redirectWithNotice(w, r, returnTo, noticeProfileUpdated)
}

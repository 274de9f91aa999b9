package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tennis-web/internal/api"
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/session"
)

// RegisterForm is the self-service sign-up form
type RegisterForm struct {
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// ProfileForm is the profile edit form. Role is only honoured for admins.
type ProfileForm struct {
	Username    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Password    string
	Role        domain.Role
}

// AuthService handles login, registration, logout and profile changes
type AuthService struct {
	backend  Backend
	sessions Sessions
	activity ActivityPublisher
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(backend Backend, sessions Sessions, activity ActivityPublisher, logger *slog.Logger) *AuthService {
	return &AuthService{
		backend:  backend,
		sessions: sessions,
		activity: activity,
		logger:   logger,
	}
}

// Login authenticates against the backend, loads the profile and starts
// the browser session sessionID.
func (s *AuthService) Login(ctx context.Context, sessionID, username, password string) (*session.Session, error) {
	token, err := s.backend.Login(ctx, api.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, loginFailure(err)
	}

	// credentials were accepted; profile failures get the generic message
	me, err := s.backend.Me(api.WithToken(ctx, token))
	if err != nil {
		return nil, fail(err, "Login failed. Please try again.")
	}

	sess, err := s.sessions.Login(ctx, sessionID, token, *me)
	if err != nil {
		s.logger.Error("failed to persist session", "error", err)
		return nil, &Failure{Message: "Login failed. Please try again.", Err: err}
	}

	s.activity.Publish(ctx, activity(domain.ActivityLogin, sess.User, 0))
	return sess, nil
}

func loginFailure(err error) error {
	switch api.StatusCode(err) {
	case http.StatusNotFound:
		return &Failure{Message: "Username not found. Please check your username.", Err: err}
	case http.StatusUnauthorized:
		return &Failure{Message: "Incorrect password. Please try again.", Err: err}
	}
	return fail(err, "Login failed. Please try again.")
}

// Register creates a PLAYER account
func (s *AuthService) Register(ctx context.Context, form RegisterForm) error {
	in := domain.UserInput{
		Username:    strings.TrimSpace(form.Username),
		Password:    form.Password,
		Email:       strings.TrimSpace(form.Email),
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		PhoneNumber: form.PhoneNumber,
	}
	in.WithRole(domain.RolePlayer)

	if err := s.backend.Register(ctx, in); err != nil {
		switch api.StatusCode(err) {
		case http.StatusConflict:
			return &Failure{Message: "Username or email already exists.", Err: err}
		case http.StatusBadRequest:
			return &Failure{Message: "Invalid registration data. Please check your inputs.", Err: err}
		}
		return fail(err, "Registration failed. Please try again.")
	}

	s.activity.Publish(ctx, domain.Activity{Type: domain.ActivityRegister, Username: in.Username, Role: domain.RolePlayer.String()})
	return nil
}

// Logout ends the browser session
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return nil
	}
	if err := s.sessions.Logout(ctx, sess.ID); err != nil {
		return err
	}
	s.activity.Publish(ctx, activity(domain.ActivityLogout, sess.User, 0))
	return nil
}

// UpdateProfile saves the current user's profile, reloads it from the
// backend and refreshes the session snapshot under the same token.
func (s *AuthService) UpdateProfile(ctx context.Context, sess *session.Session, form ProfileForm) (*session.Session, error) {
	in := domain.UserInput{
		Username:    strings.TrimSpace(form.Username),
		Email:       strings.TrimSpace(form.Email),
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		PhoneNumber: form.PhoneNumber,
	}
	in.SetPassword(form.Password)

	switch sess.User.Role {
	case domain.RoleAdmin:
		role := form.Role
		if !role.Valid() {
			role = sess.User.Role
		}
		in.WithRole(role)
	case domain.RoleReferee:
		in.WithRole(domain.RoleReferee)
	case domain.RolePlayer:
		// players cannot change their role
	}

	if err := s.backend.UpdateUser(ctx, sess.User.ID, in); err != nil {
		return nil, fail(err, "Error updating profile.")
	}

	me, err := s.backend.Me(ctx)
	if err != nil {
		return nil, fail(err, "Error updating profile.")
	}

	updated, err := s.sessions.UpdateUser(ctx, sess.ID, *me)
	if err != nil {
		return nil, fail(err, "Error updating profile.")
	}

	s.activity.Publish(ctx, activity(domain.ActivityProfileUpdated, updated.User, updated.User.ID))
	return updated, nil
}

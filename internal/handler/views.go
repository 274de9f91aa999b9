package handler

import (
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/service"
)

// BaseView is shared by every page
type BaseView struct {
	Title  string
	User   *domain.User
	Tab    string
	Notice string
	Error  string
}

// AuthView backs the login and register pages
type AuthView struct {
	BaseView
	Username string
	Email    string
	First    string
	Last     string
	Phone    string
}

// ProfileView backs the profile form
type ProfileView struct {
	User     domain.User
	Return   string
	CanRole  bool
	Selected domain.Role
}

// PlayerView backs the player dashboard
type PlayerView struct {
	BaseView
	Matches     service.PlayerMatches
	Tournaments service.TournamentBoard
	Profile     ProfileView
}

// RefereeView backs the referee dashboard
type RefereeView struct {
	BaseView
	Matches domain.MatchBuckets
	Players service.PlayerList
	Profile ProfileView
	// Pending holds score input by match id that was not saved
	Pending map[int64]string
}

// AdminView backs the admin dashboard
type AdminView struct {
	BaseView
	Users          []domain.User
	EditUser       *domain.User
	Tournaments    []domain.Tournament
	EditTournament *domain.Tournament
	Board          service.MatchBoard
	Export         service.ExportOptions
	Profile        ProfileView
}

func newProfileView(user domain.User, returnTo string) ProfileView {
	v := ProfileView{User: user, Return: returnTo, Selected: user.Role}
	switch user.Role {
	case domain.RoleAdmin:
		v.CanRole = true
	case domain.RoleReferee, domain.RolePlayer:
		v.CanRole = false
	}
	return v
}

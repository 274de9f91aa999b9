package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/service"
)

// AdminDashboard renders the admin tabs
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderAdmin(w, r, tab(r, tabUsers, tabTournaments, tabMatches, tabExport, tabProfile), "")
}

func (h *Handler) renderAdmin(w http.ResponseWriter, r *http.Request, active, errMsg string) {
	ctx := r.Context()
	user := *currentUser(ctx)

	view := AdminView{BaseView: baseView(r, "Admin Dashboard")}
	view.Tab = active

	var err error
	switch active {
	case tabUsers:
		view.Users, err = h.services.Admin.Users(ctx)
		if id := queryID(r, "edit"); id != 0 {
			for i := range view.Users {
				if view.Users[i].ID == id {
					view.EditUser = &view.Users[i]
				}
			}
		}
	case tabTournaments:
		view.Tournaments, err = h.services.Admin.Tournaments(ctx)
		if id := queryID(r, "edit"); id != 0 {
			if t, ok := domain.FindTournament(view.Tournaments, id); ok {
				view.EditTournament = &t
			}
		}
	case tabMatches:
		tournamentID := queryID(r, "tournament")
		if tournamentID == 0 {
			tournamentID = formID(r, "tournamentId")
		}
		view.Board, err = h.services.Admin.MatchBoard(ctx, tournamentID)
	case tabExport:
		view.Export = h.services.Admin.ExportOptions(ctx)
	case tabProfile:
		view.Profile = newProfileView(user, "/admin?tab=profile")
	}
	if err != nil {
		view.Error = service.Message(err)
	}
	if errMsg != "" {
		view.Error = errMsg
	}
	h.render(w, http.StatusOK, "admin.html", view)
}

func userForm(r *http.Request) service.UserForm {
	form := service.UserForm{
		Username:    r.FormValue("username"),
		Email:       r.FormValue("email"),
		Password:    r.FormValue("password"),
		FirstName:   r.FormValue("firstName"),
		LastName:    r.FormValue("lastName"),
		PhoneNumber: r.FormValue("phoneNumber"),
	}
	if role, err := domain.ParseRole(r.FormValue("role")); err == nil {
		form.Role = role
	}
	return form
}

func tournamentForm(r *http.Request) service.TournamentForm {
	return service.TournamentForm{
		Name:                 r.FormValue("name"),
		Location:             r.FormValue("location"),
		StartDate:            r.FormValue("startDate"),
		EndDate:              r.FormValue("endDate"),
		RegistrationDeadline: r.FormValue("registrationDeadline"),
		Description:          r.FormValue("description"),
	}
}

// CreateUser handles the new user form
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Admin.CreateUser(r.Context(), *currentUser(r.Context()), userForm(r)); err != nil {
		h.renderAdmin(w, r, tabUsers, service.Message(err))
		return
	}
	redirectWithNotice(w, r, "/admin?tab=users", noticeUserCreated)
}

// UpdateUser handles the edit user form
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "userID")
	if !ok {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	if err := h.services.Admin.UpdateUser(r.Context(), *currentUser(r.Context()), id, userForm(r)); err != nil {
		h.renderAdmin(w, r, tabUsers, service.Message(err))
		return
	}
	redirectWithNotice(w, r, "/admin?tab=users", noticeUserSaved)
}

// DeleteUser removes a user
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "userID")
	if !ok {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	if err := h.services.Admin.DeleteUser(r.Context(), *currentUser(r.Context()), id); err != nil {
		h.renderAdmin(w, r, tabUsers, service.Message(err))
		return
	}
	redirectWithNotice(w, r, "/admin?tab=users", noticeUserDeleted)
}

// CreateTournament handles the new tournament form
func (h *Handler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Admin.CreateTournament(r.Context(), *currentUser(r.Context()), tournamentForm(r)); err != nil {
		h.renderAdmin(w, r, tabTournaments, service.Message(err))
		return
	}
	redirectWithNotice(w, r, "/admin?tab=tournaments", noticeTournamentCreated)
}

// UpdateTournament handles the edit tournament form
func (h *Handler) UpdateTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "tournamentID")
	if !ok {
		http.Error(w, "invalid tournament id", http.StatusBadRequest)
		return
	}
	if err := h.services.Admin.UpdateTournament(r.Context(), *currentUser(r.Context()), id, tournamentForm(r)); err != nil {
		h.renderAdmin(w, r, tabTournaments, service.Message(err))
		return
	}
	redirectWithNotice(w, r, "/admin?tab=tournaments", noticeTournamentUpdated)
}

// DeleteTournament removes a tournament
func (h *Handler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "tournamentID")
	if !ok {
		http.Error(w, "invalid tournament id", http.StatusBadRequest)
		return
	}
	if err := h.services.Admin.DeleteTournament(r.Context(), *currentUser(r.Context()), id); err != nil {
		h.renderAdmin(w, r, tabTournaments, service.Message(err))
		return
	}
	redirectWithNotice(w, r, "/admin?tab=tournaments", noticeTournamentDeleted)
}

// CreateMatch handles the new match form of the selected tournament
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	form := service.MatchForm{
		TournamentID: formID(r, "tournamentId"),
		Player1ID:    formID(r, "player1Id"),
		Player2ID:    formID(r, "player2Id"),
		RefereeID:    formID(r, "refereeId"),
		MatchDate:    r.FormValue("matchDate"),
		Venue:        r.FormValue("venue"),
	}
	if err := h.services.Admin.CreateMatch(r.Context(), *currentUser(r.Context()), form); err != nil {
		h.renderAdmin(w, r, tabMatches, service.Message(err))
		return
	}
	redirectWithNotice(w, r, matchesTabPath(form.TournamentID), noticeMatchCreated)
}

// DeleteMatch removes a match and returns to its tournament
func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "matchID")
	if !ok {
		http.Error(w, "invalid match id", http.StatusBadRequest)
		return
	}
	if err := h.services.Admin.DeleteMatch(r.Context(), *currentUser(r.Context()), id); err != nil {
		h.renderAdmin(w, r, tabMatches, service.Message(err))
		return
	}
	redirectWithNotice(w, r, matchesTabPath(formID(r, "tournamentId")), noticeMatchDeleted)
}

func matchesTabPath(tournamentID int64) string {
	if tournamentID == 0 {
		return "/admin?tab=matches"
	}
	return "/admin?tab=matches&tournament=" + strconv.FormatInt(tournamentID, 10)
}

// ExportMatches streams the backend export as a download
func (h *Handler) ExportMatches(w http.ResponseWriter, r *http.Request) {
	q := domain.ExportQuery{
		TournamentID: queryID(r, "tournamentId"),
		PlayerID:     queryID(r, "playerId"),
		RefereeID:    queryID(r, "refereeId"),
	}

	export, err := h.services.Admin.Export(r.Context(), *currentUser(r.Context()), r.URL.Query().Get("format"), q)
	if err != nil {
		h.renderAdmin(w, r, tabExport, service.Message(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Format.Filename()))
	w.Write(export.Data)
}

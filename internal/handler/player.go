package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tennis-web/internal/calendar"
	"github.com/tennis-web/internal/service"
)

const (
	tabMatches     = "matches"
	tabTournaments = "tournaments"
	tabPlayers     = "players"
	tabProfile     = "profile"
	tabUsers       = "users"
	tabExport      = "export"
)

// PlayerDashboard renders the player tabs
func (h *Handler) PlayerDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderPlayer(w, r, tab(r, tabMatches, tabTournaments, tabProfile), "")
}

func (h *Handler) renderPlayer(w http.ResponseWriter, r *http.Request, active, errMsg string) {
	ctx := r.Context()
	user := *currentUser(ctx)

	view := PlayerView{BaseView: baseView(r, "Player Dashboard")}
	view.Tab = active

	var err error
	switch active {
	case tabMatches:
		view.Matches, err = h.services.Player.Matches(ctx, user)
	case tabTournaments:
		view.Tournaments, err = h.services.Player.Tournaments(ctx, user)
	case tabProfile:
		view.Profile = newProfileView(user, "/player?tab=profile")
	}
	if err != nil {
		view.Error = service.Message(err)
	}
	if errMsg != "" {
		view.Error = errMsg
	}
	h.render(w, http.StatusOK, "player.html", view)
}

// RegisterForTournament signs the current player up
func (h *Handler) RegisterForTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := pathID(r, "tournamentID")
	if !ok {
		http.Error(w, "invalid tournament id", http.StatusBadRequest)
		return
	}

	if err := h.services.Player.Register(r.Context(), *currentUser(r.Context()), tournamentID); err != nil {
		h.renderPlayer(w, r, tabTournaments, service.Message(err))
		return
	}
	redirectWithNotice(w, r, "/player?tab=tournaments", noticeTournamentJoined)
}

// PlayerSchedule downloads the player's matches as iCalendar
func (h *Handler) PlayerSchedule(w http.ResponseWriter, r *http.Request) {
	user := *currentUser(r.Context())
	matches, err := h.services.Player.Schedule(r.Context(), user)
	if err != nil {
		http.Error(w, service.Message(err), http.StatusBadGateway)
		return
	}
	writeCalendar(w, calendar.Schedule(user.FullName()+" matches", matches, time.Now()))
}

func writeCalendar(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "schedule.ics"))
	w.Write([]byte(body))
}

package handler

import (
	"net/http"
	"time"

	"github.com/tennis-web/internal/calendar"
	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/service"
)

// RefereeDashboard renders the referee tabs. Opening the players tab
// fetches a fresh list.
func (h *Handler) RefereeDashboard(w http.ResponseWriter, r *http.Request) {
	active := tab(r, tabMatches, tabPlayers, tabProfile)
	if active == tabPlayers {
		list, _ := h.services.Directory.Load(r.Context(), currentSession(r.Context()).ID)
		h.renderPlayers(w, r, http.StatusOK, list)
		return
	}
	h.renderReferee(w, r, active, "", nil)
}

func (h *Handler) renderReferee(w http.ResponseWriter, r *http.Request, active, errMsg string, pending map[int64]string) {
	ctx := r.Context()
	user := *currentUser(ctx)

	view := RefereeView{BaseView: baseView(r, "Referee Dashboard"), Pending: pending}
	view.Tab = active

	switch active {
	case tabMatches:
		buckets, err := h.services.Referee.Matches(ctx, user)
		view.Matches = buckets
		if err != nil {
			view.Error = service.Message(err)
		}
	case tabProfile:
		view.Profile = newProfileView(user, "/referee?tab=profile")
	}
	if errMsg != "" {
		view.Error = errMsg
	}
	h.render(w, http.StatusOK, "referee.html", view)
}

func (h *Handler) renderPlayers(w http.ResponseWriter, r *http.Request, status int, list service.PlayerList) {
	view := RefereeView{BaseView: baseView(r, "Referee Dashboard"), Players: list}
	view.Tab = tabPlayers
	view.Error = list.Error
	h.render(w, status, "referee.html", view)
}

// UpdateScore records the score of an in-action match
func (h *Handler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	matchID, ok := pathID(r, "matchID")
	if !ok {
		http.Error(w, "invalid match id", http.StatusBadRequest)
		return
	}

	score := r.FormValue("overallScore")
	err := h.services.Referee.UpdateScore(r.Context(), *currentUser(r.Context()), matchID, score)
	if err != nil {
		h.renderReferee(w, r, tabMatches, service.Message(err), map[int64]string{matchID: score})
		return
	}
	redirectWithNotice(w, r, "/referee?tab=matches", noticeScoreUpdated)
}

// FilterPlayers applies the filter form to the stored player list
func (h *Handler) FilterPlayers(w http.ResponseWriter, r *http.Request) {
	form := service.FilterForm{
		MinRanking:  r.FormValue("minRanking"),
		MaxRanking:  r.FormValue("maxRanking"),
		Nationality: r.FormValue("nationality"),
		MinAge:      r.FormValue("minAge"),
		MaxAge:      r.FormValue("maxAge"),
	}

	list, err := h.services.Directory.Filter(r.Context(), currentSession(r.Context()).ID, form)
	status := http.StatusOK
	if domain.IsValidationError(err) {
		status = http.StatusUnprocessableEntity
	}
	h.renderPlayers(w, r, status, list)
}

// ResetPlayers restores the unfiltered list without refetching it
func (h *Handler) ResetPlayers(w http.ResponseWriter, r *http.Request) {
	h.renderPlayers(w, r, http.StatusOK, h.services.Directory.Reset(currentSession(r.Context()).ID))
}

// RefereeSchedule downloads the referee's matches as iCalendar
func (h *Handler) RefereeSchedule(w http.ResponseWriter, r *http.Request) {
	user := *currentUser(r.Context())
	matches, err := h.services.Referee.Schedule(r.Context(), user)
	if err != nil {
		http.Error(w, service.Message(err), http.StatusBadGateway)
		return
	}
	writeCalendar(w, calendar.Schedule(user.FullName()+" assignments", matches, time.Now()))
}

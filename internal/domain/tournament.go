package domain

import "time"

// Tournament is a scheduled competition
type Tournament struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	Location             string `json:"location"`
	StartDate            Date   `json:"startDate"`
	EndDate              Date   `json:"endDate"`
	Description          string `json:"description,omitempty"`
	Status               string `json:"status"`
	RegistrationDeadline *Date  `json:"registrationDeadline,omitempty"`
}

// RegistrationOpen reports whether players may still register at now.
// The deadline day itself is included.
func (t Tournament) RegistrationOpen(now time.Time) bool {
	if t.RegistrationDeadline == nil || t.RegistrationDeadline.IsZero() {
		return true
	}
	return !now.After(t.RegistrationDeadline.EndOfDay())
}

// Covers reports whether the calendar day of at lies within the tournament dates
func (t Tournament) Covers(at time.Time) bool {
	day := NewDate(at.In(t.StartDate.Location()))
	return !day.Before(t.StartDate.Time) && !day.After(t.EndDate.Time)
}

// TournamentInput is the create/update payload for tournaments
type TournamentInput struct {
	Name                 string `json:"name"`
	Location             string `json:"location"`
	StartDate            Date   `json:"startDate"`
	EndDate              Date   `json:"endDate"`
	RegistrationDeadline *Date  `json:"registrationDeadline"`
	Description          string `json:"description"`
}

// FindTournament returns the tournament with the given id
func FindTournament(tournaments []Tournament, id int64) (Tournament, bool) {
	for _, t := range tournaments {
		if t.ID == id {
			return t, true
		}
	}
	return Tournament{}, false
}

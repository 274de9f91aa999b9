package domain

import (
	"fmt"
	"time"
)

// SplitByStart separates matches that have not started yet (start >= now)
// from those that already started.
func SplitByStart(matches []Match, now time.Time) (upcoming, past []Match) {
	upcoming, past = []Match{}, []Match{}
	for _, m := range matches {
		if m.MatchDate.Before(now) {
			past = append(past, m)
		} else {
			upcoming = append(upcoming, m)
		}
	}
	return upcoming, past
}

// RegisteredTournament pairs a tournament with the player's registration
type RegisteredTournament struct {
	Tournament   Tournament
	Registration Registration
}

// PartitionTournaments splits tournaments into those the player already
// registered for and those still open for registration at now.
func PartitionTournaments(tournaments []Tournament, registrations []Registration, now time.Time) (registered []RegisteredTournament, available []Tournament) {
	byTournament := make(map[int64]Registration, len(registrations))
	for _, r := range registrations {
		byTournament[r.TournamentID] = r
	}

	registered, available = []RegisteredTournament{}, []Tournament{}
	for _, t := range tournaments {
		if r, ok := byTournament[t.ID]; ok {
			registered = append(registered, RegisteredTournament{Tournament: t, Registration: r})
			continue
		}
		if t.RegistrationOpen(now) {
			available = append(available, t)
		}
	}
	return registered, available
}

// ValidateMatchPlan applies the advisory checks done before a match is
// submitted. The backend remains authoritative.
func ValidateMatchPlan(t Tournament, in MatchInput) error {
	if in.MatchDate.IsZero() || !t.Covers(in.MatchDate.Time) {
		return Invalid(fmt.Sprintf("Match date must be between %s and %s.", t.StartDate, t.EndDate))
	}
	if in.Player1ID != 0 && in.Player1ID == in.Player2ID {
		return Invalid("Players must be different.")
	}
	return nil
}

// PlayersFromRegistrations returns the distinct players registered in a
// tournament, in registration order.
func PlayersFromRegistrations(registrations []Registration) []User {
	seen := make(map[int64]bool, len(registrations))
	players := []User{}
	for _, r := range registrations {
		if seen[r.PlayerID] {
			continue
		}
		seen[r.PlayerID] = true
		players = append(players, User{ID: r.PlayerID, Username: r.PlayerUsername, Role: RolePlayer})
	}
	return players
}

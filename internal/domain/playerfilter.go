package domain

import (
	"strings"
	"time"
)

// MinimumPlayerAge is the lowest age a filter may ask for
const MinimumPlayerAge = 14

// PlayerFilter narrows a player list. Nil bounds and a blank nationality
// are inactive.
type PlayerFilter struct {
	MinRanking  *int
	MaxRanking  *int
	Nationality string
	MinAge      *int
	MaxAge      *int
}

// Validate rejects inconsistent criteria before any filtering happens
func (f PlayerFilter) Validate() error {
	if f.MinAge != nil && f.MaxAge != nil && *f.MinAge > *f.MaxAge {
		return Invalid("Minimum age cannot be greater than maximum age")
	}
	if (f.MinAge != nil && *f.MinAge < MinimumPlayerAge) || (f.MaxAge != nil && *f.MaxAge < MinimumPlayerAge) {
		return Invalid("Age must be at least 14")
	}
	if f.MinRanking != nil && f.MaxRanking != nil && *f.MinRanking > *f.MaxRanking {
		return Invalid("Minimum ranking cannot be greater than maximum ranking")
	}
	if (f.MinRanking != nil && *f.MinRanking <= 0) || (f.MaxRanking != nil && *f.MaxRanking <= 0) {
		return Invalid("Ranking must be greater than 0")
	}
	return nil
}

// IsZero reports whether no criterion is active
func (f PlayerFilter) IsZero() bool {
	return f.MinRanking == nil && f.MaxRanking == nil &&
		f.MinAge == nil && f.MaxAge == nil &&
		strings.TrimSpace(f.Nationality) == ""
}

// Matches reports whether p passes every active criterion. A player
// lacking a field that an active criterion needs does not pass.
func (f PlayerFilter) Matches(p User, now time.Time) bool {
	if f.MinRanking != nil || f.MaxRanking != nil {
		if p.Ranking == nil {
			return false
		}
		if f.MinRanking != nil && *p.Ranking < *f.MinRanking {
			return false
		}
		if f.MaxRanking != nil && *p.Ranking > *f.MaxRanking {
			return false
		}
	}

	if strings.TrimSpace(f.Nationality) != "" {
		if !strings.Contains(strings.ToLower(p.Nationality), strings.ToLower(f.Nationality)) {
			return false
		}
	}

	if f.MinAge != nil || f.MaxAge != nil {
		if p.BirthDate == nil || p.BirthDate.IsZero() {
			return false
		}
		age := AgeOn(p.BirthDate.Time, now)
		if f.MinAge != nil && age < *f.MinAge {
			return false
		}
		if f.MaxAge != nil && age > *f.MaxAge {
			return false
		}
	}
	return true
}

// Apply returns the players passing the filter, preserving order. The
// input slice is not modified.
func (f PlayerFilter) Apply(players []User, now time.Time) []User {
	out := make([]User, 0, len(players))
	for _, p := range players {
		if f.Matches(p, now) {
			out = append(out, p)
		}
	}
	return out
}

// AgeOn returns the number of whole years between birth and now by
// calendar date, so a birthday only counts once its month and day arrive.
func AgeOn(birth, now time.Time) int {
	by, bm, bd := birth.Date()
	ny, nm, nd := now.In(birth.Location()).Date()
	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}

package domain

import "time"

// InActionWindow is how long after its start a match accepts score entry
const InActionWindow = 2 * time.Hour

// MatchState is the time bucket a match falls into
type MatchState int

const (
	MatchUpcoming MatchState = iota
	MatchInAction
	MatchPast
)

func (s MatchState) String() string {
	switch s {
	case MatchUpcoming:
		return "upcoming"
	case MatchInAction:
		return "in-action"
	case MatchPast:
		return "past"
	}
	return "unknown"
}

// ClassifyMatch buckets a match by the time elapsed since its start.
// A match starting exactly at now is in action; one that started exactly
// InActionWindow ago is past.
func ClassifyMatch(m Match, now time.Time) MatchState {
	elapsed := now.Sub(m.MatchDate.Time)
	switch {
	case elapsed < 0:
		return MatchUpcoming
	case elapsed < InActionWindow:
		return MatchInAction
	default:
		return MatchPast
	}
}

// MatchBuckets partitions a match list. Every match lands in exactly one
// bucket and input order is preserved within each bucket.
type MatchBuckets struct {
	InAction []Match
	Upcoming []Match
	Past     []Match
}

// BucketMatches classifies every match against now
func BucketMatches(matches []Match, now time.Time) MatchBuckets {
	b := MatchBuckets{
		InAction: []Match{},
		Upcoming: []Match{},
		Past:     []Match{},
	}
	for _, m := range matches {
		switch ClassifyMatch(m, now) {
		case MatchInAction:
			b.InAction = append(b.InAction, m)
		case MatchUpcoming:
			b.Upcoming = append(b.Upcoming, m)
		case MatchPast:
			b.Past = append(b.Past, m)
		}
	}
	return b
}

// Len is the total number of bucketed matches
func (b MatchBuckets) Len() int {
	return len(b.InAction) + len(b.Upcoming) + len(b.Past)
}

package domain

import "time"

// Activity types published for user actions
const (
	ActivityLogin             = "login"
	ActivityLogout            = "logout"
	ActivityRegister          = "register"
	ActivityProfileUpdated    = "profile_updated"
	ActivityTournamentJoined  = "tournament_joined"
	ActivityScoreUpdated      = "score_updated"
	ActivityUserCreated       = "user_created"
	ActivityUserUpdated       = "user_updated"
	ActivityUserDeleted       = "user_deleted"
	ActivityTournamentCreated = "tournament_created"
	ActivityTournamentUpdated = "tournament_updated"
	ActivityTournamentDeleted = "tournament_deleted"
	ActivityMatchCreated      = "match_created"
	ActivityMatchDeleted      = "match_deleted"
	ActivityMatchesExported   = "matches_exported"
)

// Activity records a successful user action against the backend
type Activity struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	UserID    int64             `json:"user_id,omitempty"`
	Username  string            `json:"username,omitempty"`
	Role      string            `json:"role,omitempty"`
	Subject   int64             `json:"subject_id,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

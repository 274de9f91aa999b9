package handler

import "strings"

// Notice codes carried across redirects in the notice query parameter
const (
	noticeRegistered        = "registered"
	noticeProfileUpdated    = "profile_updated"
	noticeTournamentJoined  = "tournament_joined"
	noticeScoreUpdated      = "score_updated"
	noticeUserCreated       = "user_created"
	noticeUserSaved         = "user_saved"
	noticeUserDeleted       = "user_deleted"
	noticeTournamentCreated = "tournament_created"
	noticeTournamentUpdated = "tournament_updated"
	noticeTournamentDeleted = "tournament_deleted"
	noticeMatchCreated      = "match_created"
	noticeMatchDeleted      = "match_deleted"
)

func flashMessage(notice string) string {
	switch strings.TrimSpace(notice) {
	case noticeRegistered:
		return "Registered successfully! You can now login."
	case noticeProfileUpdated:
		return "Profile updated successfully!"
	case noticeTournamentJoined:
		return "Registration submitted!"
	case noticeScoreUpdated:
		return "Score updated."
	case noticeUserCreated:
		return "User created successfully"
	case noticeUserSaved:
		return "User saved."
	case noticeUserDeleted:
		return "User deleted."
	case noticeTournamentCreated:
		return "Tournament created!"
	case noticeTournamentUpdated:
		return "Tournament updated."
	case noticeTournamentDeleted:
		return "Tournament deleted."
	case noticeMatchCreated:
		return "Match created successfully!"
	case noticeMatchDeleted:
		return "Match deleted."
	}
	return ""
}

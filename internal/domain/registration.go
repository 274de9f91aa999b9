package domain

// Registration statuses
const (
	RegistrationPending  = "PENDING"
	RegistrationApproved = "APPROVED"
	RegistrationDenied   = "DENIED"
)

// Registration links a player to a tournament
type Registration struct {
	ID               int64      `json:"id"`
	PlayerID         int64      `json:"playerId"`
	PlayerUsername   string     `json:"playerUsername"`
	TournamentID     int64      `json:"tournamentId"`
	TournamentName   string     `json:"tournamentName"`
	RegistrationDate *Timestamp `json:"registrationDate,omitempty"`
	Status           string     `json:"status"`
	DecisionDate     *Timestamp `json:"decisionDate,omitempty"`
}

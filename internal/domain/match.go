package domain

import (
	"fmt"
	"strings"
)

// Match is a scheduled game between two players
type Match struct {
	ID             int64     `json:"matchId"`
	TournamentID   int64     `json:"tournamentId"`
	TournamentName string    `json:"tournamentName"`
	Player1ID      int64     `json:"player1Id"`
	Player1Name    string    `json:"player1Name"`
	Player2ID      int64     `json:"player2Id"`
	Player2Name    string    `json:"player2Name"`
	RefereeID      int64     `json:"refereeId"`
	RefereeName    string    `json:"refereeName"`
	WinnerID       *int64    `json:"winnerId,omitempty"`
	WinnerName     string    `json:"winnerName,omitempty"`
	MatchDate      Timestamp `json:"matchDate"`
	Venue          string    `json:"venue"`
	OverallScore   string    `json:"overallScore,omitempty"`
}

// Title is a short "A vs B" label
func (m Match) Title() string {
	return fmt.Sprintf("%s vs %s", m.Player1Name, m.Player2Name)
}

// MatchInput is the payload for creating a match
type MatchInput struct {
	TournamentID int64     `json:"tournamentId"`
	Player1ID    int64     `json:"player1Id"`
	Player2ID    int64     `json:"player2Id"`
	RefereeID    int64     `json:"refereeId"`
	MatchDate    Timestamp `json:"matchDate"`
	Venue        string    `json:"venue"`
}

// ExportFormat is a flat-file format supported by the match export
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportTXT ExportFormat = "txt"
)

// ParseExportFormat validates a requested export format
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportCSV, ExportTXT:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidExportFormat, s)
}

// Filename is the download name of an export in this format
func (f ExportFormat) Filename() string {
	return "matches_export." + string(f)
}

// ExportQuery narrows a match export. Zero ids are not sent.
type ExportQuery struct {
	Format       ExportFormat
	TournamentID int64
	PlayerID     int64
	RefereeID    int64
}

package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tennis-web/internal/domain"
)

func TestMatchDecodesBackendDateTimes(t *testing.T) {
	payload := `{
		"matchId": 12,
		"tournamentId": 2,
		"player1Id": 5, "player1Name": "Rafa",
		"player2Id": 6, "player2Name": "Roger",
		"refereeId": 9, "refereeName": "Carlos",
		"winnerId": null,
		"matchDate": "2025-05-01T10:30:00",
		"venue": "Court 1",
		"overallScore": null
	}`
	var m domain.Match
	require.NoError(t, json.Unmarshal([]byte(payload), &m))
	assert.Equal(t, int64(12), m.ID)
	assert.Nil(t, m.WinnerID)
	assert.True(t, m.MatchDate.Equal(time.Date(2025, 5, 1, 10, 30, 0, 0, time.Local)))
	assert.Equal(t, "Rafa vs Roger", m.Title())
}

func TestParseTimeLayouts(t *testing.T) {
	for _, s := range []string{
		"2025-05-01T10:30:00",
		"2025-05-01T10:30:00.123456",
		"2025-05-01T10:30",
		"2025-05-01 10:30:00",
	} {
		got, err := domain.ParseTime(s)
		require.NoError(t, err, s)
		assert.Equal(t, 10, got.Hour(), s)
		assert.Equal(t, 30, got.Minute(), s)
	}

	got, err := domain.ParseTime("2025-05-01T10:30:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)))

	_, err = domain.ParseTime("yesterday")
	assert.ErrorIs(t, err, domain.ErrInvalidTimestamp)
}

func TestTournamentDatesRoundTrip(t *testing.T) {
	var tr domain.Tournament
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"startDate":"2025-05-01","endDate":"2025-05-10","registrationDeadline":null}`), &tr))
	assert.Nil(t, tr.RegistrationDeadline)
	assert.Equal(t, "2025-05-01", tr.StartDate.String())

	deadline := domain.NewDate(time.Date(2025, 4, 20, 15, 0, 0, 0, time.Local))
	in := domain.TournamentInput{Name: "Open", StartDate: tr.StartDate, EndDate: tr.EndDate, RegistrationDeadline: &deadline}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"startDate":"2025-05-01"`)
	assert.Contains(t, string(data), `"registrationDeadline":"2025-04-20"`)

	in.RegistrationDeadline = nil
	data, err = json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"registrationDeadline":null`)
}

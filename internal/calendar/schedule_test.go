package calendar_test

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tennis-web/internal/calendar"
	"github.com/tennis-web/internal/domain"
)

func TestSchedule(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	matches := []domain.Match{
		{ID: 1, Player1Name: "Ana", Player2Name: "Bea", TournamentName: "Open", Venue: "Court 1", MatchDate: domain.NewTimestamp(now.Add(24 * time.Hour))},
		{ID: 2, Player1Name: "Cid", Player2Name: "Dan", TournamentName: "Open", OverallScore: "6-4", MatchDate: domain.NewTimestamp(now.Add(-48 * time.Hour))},
	}

	out := calendar.Schedule("My matches", matches, now)

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "match-1@tennis-web", events[0].Id())
	assert.Equal(t, "Ana vs Bea", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "Court 1", events[0].GetProperty(ics.ComponentPropertyLocation).Value)
	assert.Len(t, events[0].Alarms(), 1)

	start, err := events[1].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(now.Add(-48*time.Hour)))
	assert.Empty(t, events[1].Alarms(), "past matches get no reminder")
	assert.Nil(t, events[1].GetProperty(ics.ComponentPropertyLocation))
}

func TestScheduleEmpty(t *testing.T) {
	out := calendar.Schedule("Nothing", nil, time.Now())
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}

package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/tennis-web/internal/domain"
)

// ProductID identifies the generator in exported feeds
const ProductID = "-//tennis-web//match schedule//EN"

// Schedule renders matches as an iCalendar feed named name. Each match
// lasts InActionWindow; upcoming matches carry a reminder.
func Schedule(name string, matches []domain.Match, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetName(name)

	for _, m := range matches {
		e := cal.AddEvent(fmt.Sprintf("match-%d@tennis-web", m.ID))
		e.SetDtStampTime(now)
		e.SetSummary(m.Title())
		e.SetDescription(describe(m))
		e.SetStartAt(m.MatchDate.Time)
		e.SetEndAt(m.MatchDate.Add(domain.InActionWindow))
		if m.Venue != "" {
			e.AddProperty(ics.ComponentPropertyLocation, m.Venue)
		}

		if domain.ClassifyMatch(m, now) == domain.MatchUpcoming {
			a := e.AddAlarm()
			a.SetDescription(m.Title())
			a.SetAction(ics.ActionDisplay)
			a.SetTrigger("-PT30M")
		}
	}
	return cal.Serialize()
}

func describe(m domain.Match) string {
	lines := []string{m.TournamentName}
	if m.RefereeName != "" {
		lines = append(lines, "Referee: "+m.RefereeName)
	}
	if m.OverallScore != "" {
		lines = append(lines, "Score: "+m.OverallScore)
	}
	if m.WinnerName != "" {
		lines = append(lines, "Winner: "+m.WinnerName)
	}
	return strings.Join(lines, "\n")
}

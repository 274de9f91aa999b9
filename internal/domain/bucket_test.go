package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tennis-web/internal/domain"
)

func matchAt(id int64, at time.Time) domain.Match {
	return domain.Match{ID: id, MatchDate: domain.NewTimestamp(at)}
}

func TestClassifyMatchBoundaries(t *testing.T) {
	now := time.Date(2025, 5, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want domain.MatchState
	}{
		{"one second ahead", now.Add(time.Second), domain.MatchUpcoming},
		{"exactly now", now, domain.MatchInAction},
		{"one hour ago", now.Add(-time.Hour), domain.MatchInAction},
		{"just under two hours", now.Add(-2*time.Hour + time.Nanosecond), domain.MatchInAction},
		{"exactly two hours", now.Add(-2 * time.Hour), domain.MatchPast},
		{"yesterday", now.AddDate(0, 0, -1), domain.MatchPast},
		{"next week", now.AddDate(0, 0, 7), domain.MatchUpcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ClassifyMatch(matchAt(1, tt.at), now))
		})
	}
}

func TestBucketMatchesIsAPartition(t *testing.T) {
	now := time.Date(2025, 5, 10, 15, 0, 0, 0, time.UTC)
	var matches []domain.Match
	for i := -10; i <= 10; i++ {
		matches = append(matches, matchAt(int64(i+11), now.Add(time.Duration(i)*30*time.Minute)))
	}

	b := domain.BucketMatches(matches, now)
	assert.Equal(t, len(matches), b.Len())

	seen := map[int64]int{}
	for _, bucket := range [][]domain.Match{b.InAction, b.Upcoming, b.Past} {
		for _, m := range bucket {
			seen[m.ID]++
		}
	}
	for _, m := range matches {
		assert.Equal(t, 1, seen[m.ID], "match %d", m.ID)
	}

	// -90m, -60m, -30m and now are in action
	assert.Len(t, b.InAction, 4)
	assert.Len(t, b.Upcoming, 10)
	assert.Len(t, b.Past, 7)
}

func TestBucketMatchesKeepsOrder(t *testing.T) {
	now := time.Now()
	matches := []domain.Match{
		matchAt(3, now.Add(3*time.Hour)),
		matchAt(1, now.Add(time.Hour)),
		matchAt(2, now.Add(2*time.Hour)),
	}
	b := domain.BucketMatches(matches, now)
	if assert.Len(t, b.Upcoming, 3) {
		assert.Equal(t, []int64{3, 1, 2}, []int64{b.Upcoming[0].ID, b.Upcoming[1].ID, b.Upcoming[2].ID})
	}
	assert.Empty(t, b.InAction)
	assert.Empty(t, b.Past)
}

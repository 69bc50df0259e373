package podds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchResult(t *testing.T) {
	date := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, HomeWin, NewResult(date, "A", "B", 2, 1, 2023).Result())
	assert.Equal(t, Draw, NewResult(date, "A", "B", 0, 0, 2023).Result())
	assert.Equal(t, AwayWin, NewResult(date, "A", "B", 0, 1, 2023).Result())
	assert.Equal(t, Unknown, NewMatch(date, "A", "B", 2023).Result())
}

func TestNewMatchDefaults(t *testing.T) {
	m := NewMatch(time.Date(2024, 3, 2, 15, 30, 0, 0, time.UTC), "A", "B", 2023)
	assert.False(t, m.HasBeenPlayed())
	assert.Equal(t, Unplayed, m.HomeScore)
	assert.Equal(t, Unplayed, m.AwayScore)
	assert.False(t, m.Prediction.IsComputable())

	t.Log("Dates are truncated to the day")
	assert.Equal(t, "2024-03-02|A", m.Key())
	assert.Equal(t, "2024-03-02|A|B", m.FixtureKey())
}

func TestMatchValidate(t *testing.T) {
	date := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, NewResult(date, "A", "B", 0, 0, 2023).Validate())
	assert.NoError(t, NewMatch(date, "A", "B", 2023).Validate())
	assert.Error(t, NewResult(date, "A", "B", Unplayed, 2, 2023).Validate())
	assert.Error(t, NewResult(date, "A", "B", -3, -3, 2023).Validate())
}

func TestParseScoreString(t *testing.T) {
	tests := []struct {
		in         string
		home, away int
		ok         bool
	}{
		{"2 - 1", 2, 1, true},
		{" 0 - 0 ", 0, 0, true},
		{"P - P", Unplayed, Unplayed, false},
		{"C - C", Unplayed, Unplayed, false},
		{"S - S", Unplayed, Unplayed, false},
		{"15:00", Unplayed, Unplayed, false},
		{"", Unplayed, Unplayed, false},
	}
	for _, tt := range tests {
		home, away, ok := parseScoreString(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.home, home, tt.in)
		assert.Equal(t, tt.away, away, tt.in)
	}
}

package podds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testConfig returns a seeded configuration with a reduced simulation count
func testConfig(simulations int) *PoddsConfig {
	cfg := DefaultPoddsConfig()
	cfg.Simulations = simulations
	cfg.Seed = 42
	cfg.Workers = 2
	return cfg
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

var sixTeams = []string{"Arsenal", "Burnley", "Chelsea", "Everton", "Fulham", "Leeds"}

// buildLeague plays len(teams)/2 matches on each of days consecutive days from start.
// Every team alternates between home and away so each has both records in any
// reasonable window. score gives the result of the n'th match generated.
func buildLeague(t *testing.T, teams []string, start time.Time, days int, score func(n int) (int, int)) *Table {
	t.Helper()
	table := NewTable("England", "Test League")
	n := len(teams)
	count := 0
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		for k := 0; k < n/2; k++ {
			home := teams[(d+k)%n]
			away := teams[(d+k+n/2)%n]
			h, a := score(count)
			count++
			require.NoError(t, table.Add(NewResult(date, home, away, h, a, 2024)))
		}
	}
	return table
}

func fixedScore(home, away int) func(int) (int, int) {
	return func(int) (int, int) { return home, away }
}

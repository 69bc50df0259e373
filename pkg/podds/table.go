package podds

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Table is every match of one competition, kept in chronological order
// (date, then home team, then away team) whatever order matches are added in
type Table struct {
	Country     string
	Competition string
	matches     []*Match
	fixtures    map[string]*Match
}

// NewTable creates an empty table for a competition
func NewTable(country, competition string) *Table {
	return &Table{
		Country:     country,
		Competition: competition,
		fixtures:    make(map[string]*Match),
	}
}

func matchLess(a, b *Match) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if a.HomeTeam != b.HomeTeam {
		return a.HomeTeam < b.HomeTeam
	}
	return a.AwayTeam < b.AwayTeam
}

// Add validates m and inserts it in order.
// A record failing validation returns *InconsistentScoreError and is not added.
func (t *Table) Add(m *Match) error {
	if m == nil {
		return fmt.Errorf("must pass a match")
	}
	if err := m.Validate(); err != nil {
		return err
	}
	m.Date = DateOf(m.Date)
	key := m.FixtureKey()
	if _, exists := t.fixtures[key]; exists {
		return fmt.Errorf("duplicate match %s", m)
	}
	i := sort.Search(len(t.matches), func(i int) bool { return matchLess(m, t.matches[i]) })
	t.matches = append(t.matches, nil)
	copy(t.matches[i+1:], t.matches[i:])
	t.matches[i] = m
	t.fixtures[key] = m
	return nil
}

// AddAll adds every match, collecting the errors of those that could not be added
func (t *Table) AddAll(matches []*Match) error {
	var errs []error
	for _, m := range matches {
		if err := t.Add(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Matches returns the table in chronological order. The slice must not be modified.
func (t *Table) Matches() []*Match {
	return t.matches
}

// Len returns the number of matches held
func (t *Table) Len() int {
	return len(t.matches)
}

// Get returns the match for a fixture, or nil
func (t *Table) Get(date time.Time, homeTeam, awayTeam string) *Match {
	return t.fixtures[MatchKey(date, homeTeam)+"|"+awayTeam]
}

// MatchesOn returns the matches played or scheduled on date
func (t *Table) MatchesOn(date time.Time) []*Match {
	return matchesOn(t.matches, date)
}

// PlayedBefore returns the played matches dated strictly before date, oldest first
func (t *Table) PlayedBefore(date time.Time) []*Match {
	return playedBefore(t.matches, date)
}

// Index maps each match's (date, home team) key to the match.
// A team plays at most once a day, so the key is unique in practice; if it is not
// the first match in table order wins.
func (t *Table) Index() map[string]*Match {
	return indexMatches(t.matches)
}

// ClearPredictions resets every prediction to the NotComputed sentinel
func (t *Table) ClearPredictions() {
	for _, m := range t.matches {
		m.Prediction = NonComputablePrediction()
	}
}

func matchesOn(matches []*Match, date time.Time) []*Match {
	day := DateOf(date)
	var result []*Match
	for _, m := range matches {
		if m.Date.Equal(day) {
			result = append(result, m)
		}
	}
	return result
}

func playedBefore(matches []*Match, date time.Time) []*Match {
	day := DateOf(date)
	var result []*Match
	for _, m := range matches {
		if m.HasBeenPlayed() && m.Date.Before(day) {
			result = append(result, m)
		}
	}
	return result
}

func indexMatches(matches []*Match) map[string]*Match {
	index := make(map[string]*Match, len(matches))
	for _, m := range matches {
		key := m.Key()
		if _, exists := index[key]; !exists {
			index[key] = m
		}
	}
	return index
}

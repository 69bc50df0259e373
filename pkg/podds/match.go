package podds

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Outcome is the full time result of a match
type Outcome int

const (
	Unknown Outcome = iota
	HomeWin
	Draw
	AwayWin
)

func (o Outcome) String() string {
	switch o {
	case HomeWin:
		return "Home Win"
	case Draw:
		return "Draw"
	case AwayWin:
		return "Away Win"
	default:
		return "Unknown"
	}
}

// Prediction holds the simulated outcome probabilities for a match.
// Probabilities are percentages, TotalGoals is the mean simulated total.
type Prediction struct {
	HomeWin          float64 `json:"homeWin"`
	Draw             float64 `json:"draw"`
	AwayWin          float64 `json:"awayWin"`
	TotalGoals       float64 `json:"totalGoals"`
	ThreeOrMoreGoals float64 `json:"threeOrMoreGoals"`
	BothTeamsToScore float64 `json:"bothTeamsToScore"`
}

// NonComputablePrediction returns the bundle used when no prediction could be made
func NonComputablePrediction() Prediction {
	return Prediction{
		HomeWin:          NotComputed,
		Draw:             NotComputed,
		AwayWin:          NotComputed,
		TotalGoals:       NotComputed,
		ThreeOrMoreGoals: NotComputed,
		BothTeamsToScore: NotComputed,
	}
}

// IsComputable is false for the NotComputed sentinel bundle
func (p Prediction) IsComputable() bool {
	return p.HomeWin >= 0 && p.Draw >= 0 && p.AwayWin >= 0
}

// Probability returns the percentage chance given to an outcome
func (p Prediction) Probability(o Outcome) float64 {
	switch o {
	case HomeWin:
		return p.HomeWin
	case Draw:
		return p.Draw
	case AwayWin:
		return p.AwayWin
	default:
		return NotComputed
	}
}

// Match is a single fixture in a competition
type Match struct {
	Date       time.Time  `json:"date"`
	HomeTeam   string     `json:"homeTeam"`
	AwayTeam   string     `json:"awayTeam"`
	HomeScore  int        `json:"homeScore"`
	AwayScore  int        `json:"awayScore"`
	Season     int        `json:"season"`
	Prediction Prediction `json:"prediction"`
}

// NewMatch creates an unplayed match with no prediction
func NewMatch(date time.Time, homeTeam, awayTeam string, season int) *Match {
	return &Match{
		Date:       DateOf(date),
		HomeTeam:   homeTeam,
		AwayTeam:   awayTeam,
		HomeScore:  Unplayed,
		AwayScore:  Unplayed,
		Season:     season,
		Prediction: NonComputablePrediction(),
	}
}

// NewResult creates a played match
func NewResult(date time.Time, homeTeam, awayTeam string, homeScore, awayScore, season int) *Match {
	m := NewMatch(date, homeTeam, awayTeam, season)
	m.HomeScore = homeScore
	m.AwayScore = awayScore
	return m
}

/////////////////////////////////////////////////////////////////////////
////// Status Query Methods
/////////////////////////////////////////////////////////////////////////

// HasBeenPlayed determines if match has been completed
func (m *Match) HasBeenPlayed() bool {
	return m.HomeScore >= 0 && m.AwayScore >= 0
}

// Result derives the outcome from the final scores
func (m *Match) Result() Outcome {
	if !m.HasBeenPlayed() {
		return Unknown
	}
	switch {
	case m.HomeScore > m.AwayScore:
		return HomeWin
	case m.HomeScore < m.AwayScore:
		return AwayWin
	default:
		return Draw
	}
}

// Validate checks both scores are set or both are the sentinel
func (m *Match) Validate() error {
	if m.HomeScore < Unplayed || m.AwayScore < Unplayed {
		return &InconsistentScoreError{Match: m}
	}
	if (m.HomeScore == Unplayed) != (m.AwayScore == Unplayed) {
		return &InconsistentScoreError{Match: m}
	}
	return nil
}

// Key identifies a match by date and home team, which is how results are reconciled
func (m *Match) Key() string {
	return MatchKey(m.Date, m.HomeTeam)
}

// FixtureKey identifies a match uniquely within a competition
func (m *Match) FixtureKey() string {
	return m.Key() + "|" + m.AwayTeam
}

// MatchKey builds the (date, home team) lookup key
func MatchKey(date time.Time, homeTeam string) string {
	return DateOf(date).Format(DateLayout) + "|" + homeTeam
}

// ScoreStr renders the score the way results pages do ie. "2 - 1"
func (m *Match) ScoreStr() string {
	if !m.HasBeenPlayed() {
		return ""
	}
	return fmt.Sprintf("%d - %d", m.HomeScore, m.AwayScore)
}

func (m *Match) String() string {
	return fmt.Sprintf("%s %s v %s %s", m.Date.Format(DateLayout), m.HomeTeam, m.AwayTeam, m.ScoreStr())
}

/////////////////////////////////////////////////////////////////////////
////// Parsing
/////////////////////////////////////////////////////////////////////////

// DateOf truncates t to midnight UTC on the same calendar day
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// parseScoreString parses a results page score such as "2 - 1".
// ok is false when the string does not hold a final score (postponed, cancelled, suspended or not yet updated)
func parseScoreString(score string) (home int, away int, ok bool) {
	parts := strings.Split(score, " - ")
	if len(parts) != 2 {
		return Unplayed, Unplayed, false
	}
	h := strings.TrimSpace(parts[0])
	switch h {
	case "P", "C", "S":
		return Unplayed, Unplayed, false
	}
	home, err := strconv.Atoi(h)
	if err != nil {
		return Unplayed, Unplayed, false
	}
	away, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Unplayed, Unplayed, false
	}
	return home, away, true
}

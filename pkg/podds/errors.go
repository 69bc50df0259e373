package podds

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoQualifyingConfiguration is returned by a search when no (history, cutoff) pair
// made enough confident predictions to pass the coverage guard
var ErrNoQualifyingConfiguration = errors.New("no parameter combination met the coverage guard")

// InsufficientDataError means a prediction for one match could not be computed.
// Other matches in the same batch are unaffected.
type InsufficientDataError struct {
	Date     time.Time
	HomeTeam string
	AwayTeam string
	Reason   string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data to predict %s v %s on %s: %s",
		e.HomeTeam, e.AwayTeam, e.Date.Format(DateLayout), e.Reason)
}

// InconsistentScoreError means a record has exactly one score set, or a score below the sentinel
type InconsistentScoreError struct {
	Match *Match
}

func (e *InconsistentScoreError) Error() string {
	m := e.Match
	return fmt.Sprintf("inconsistent score %d - %d for %s v %s on %s",
		m.HomeScore, m.AwayScore, m.HomeTeam, m.AwayTeam, m.Date.Format(DateLayout))
}

// MissingUpdateDataError means a match due a result was not found in freshly fetched data.
// Suggestion is the closest home team name fetched for that date, if any.
type MissingUpdateDataError struct {
	Date       time.Time
	HomeTeam   string
	Suggestion string
}

func (e *MissingUpdateDataError) Error() string {
	msg := fmt.Sprintf("no fetched result for %s at home on %s", e.HomeTeam, e.Date.Format(DateLayout))
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", e.Suggestion)
	}
	return msg
}

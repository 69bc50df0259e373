package podds

import (
	"fmt"
	"io"
)

// Pick is a prediction confident enough to bet on
type Pick struct {
	Match       *Match
	Outcome     Outcome
	Probability float64
}

// Odds are the fair decimal odds implied by the probability
func (p Pick) Odds() float64 {
	return 100 / p.Probability
}

func (p Pick) String() string {
	result := "Draw"
	switch p.Outcome {
	case HomeWin:
		result = p.Match.HomeTeam + " Win"
	case AwayWin:
		result = p.Match.AwayTeam + " Win"
	}
	return fmt.Sprintf("%s v %s : Prediction:%s, Probability:%.2f, Odds:%.2f",
		p.Match.HomeTeam, p.Match.AwayTeam, result, p.Probability, p.Odds())
}

// ConfidentPicks returns the forecasts whose most likely outcome reaches cutoff.
// A non-positive cutoff disables picks.
func ConfidentPicks(forecasts []*Forecast, cutoff float64) []Pick {
	if cutoff <= 0 {
		return nil
	}
	var picks []Pick
	for _, f := range forecasts {
		outcome := ConfidentOutcome(f.Prediction, cutoff)
		if outcome == Unknown {
			continue
		}
		picks = append(picks, Pick{Match: f.Match, Outcome: outcome, Probability: f.Prediction.Probability(outcome)})
	}
	return picks
}

// WritePicks prints one line per pick
func WritePicks(w io.Writer, picks []Pick) error {
	for _, p := range picks {
		if _, err := fmt.Fprintln(w, p.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteSearchReport prints the tuned parameters, both scores and the command line that uses them
func WriteSearchReport(w io.Writer, cfg *PoddsConfig, result *SearchResult, validation Score) error {
	_, err := fmt.Fprintf(w,
		"Score of %.2f%% with history setting of %d and cutoff of %.0f\n"+
			"Validation score of %.2f%%\n"+
			"If the above scores seem acceptable, you should use these options\n"+
			"soccerprediction -c %q -l %q -y %d -b %.0f\n"+
			"\nGood Luck!\n",
		result.Accuracy, result.HistoryLength, result.Cutoff,
		validation.Accuracy(),
		cfg.Country, cfg.Competition, result.HistoryLength, result.Cutoff)
	return err
}

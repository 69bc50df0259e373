package podds

// Score tallies how a set of forecasts fared at one cutoff.
// Possible counts every played match evaluated, Total the confident predictions
// among them and Correct the confident predictions that came true.
type Score struct {
	Correct  int `json:"correct"`
	Total    int `json:"total"`
	Possible int `json:"possible"`
}

// Accuracy is Correct as a percentage of Total, 0 when nothing was predicted
func (s Score) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// Qualifies is the coverage guard: at least a tenth of the possible matches must
// have been predicted with confidence
func (s Score) Qualifies() bool {
	return float64(s.Total) >= float64(s.Possible)/10
}

// Objective scores a set of forecasts at a cutoff
type Objective func(forecasts []*Forecast, cutoff float64) Score

// ConfidentOutcome returns the outcome given the highest probability when that
// probability is at least cutoff. A shared highest probability, or a non-computable
// prediction, gives Unknown.
func ConfidentOutcome(p Prediction, cutoff float64) Outcome {
	if !p.IsComputable() {
		return Unknown
	}
	var best Outcome
	switch {
	case p.HomeWin > p.Draw && p.HomeWin > p.AwayWin:
		best = HomeWin
	case p.Draw > p.HomeWin && p.Draw > p.AwayWin:
		best = Draw
	case p.AwayWin > p.HomeWin && p.AwayWin > p.Draw:
		best = AwayWin
	default:
		return Unknown
	}
	if p.Probability(best) < cutoff {
		return Unknown
	}
	return best
}

// HitRate is the default objective. Every played match counts as possible; a
// confident prediction counts towards Total and towards Correct when it matched the result.
func HitRate(forecasts []*Forecast, cutoff float64) Score {
	var s Score
	for _, f := range forecasts {
		if !f.Match.HasBeenPlayed() {
			continue
		}
		s.Possible++
		predicted := ConfidentOutcome(f.Prediction, cutoff)
		if predicted == Unknown {
			continue
		}
		s.Total++
		if predicted == f.Match.Result() {
			s.Correct++
		}
	}
	return s
}

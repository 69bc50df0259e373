package podds

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/richard-senior/soccerprediction/internal/logger"
)

// DefaultSimulations is the number of Monte Carlo trials run per match
const DefaultSimulations = 100000

// Predictor converts a calibration window of played matches into outcome probabilities
// using independent Poisson goal counts for each side
type Predictor struct {
	simulations int
	seed        int64
}

// Forecast is the prediction for one match. The match itself is never modified.
// Err is an *InsufficientDataError when the prediction could not be computed, in which
// case Prediction holds the NotComputed sentinel.
type Forecast struct {
	Match             *Match
	ExpectedHomeGoals float64
	ExpectedAwayGoals float64
	Prediction        Prediction
	Err               error
}

// NewPredictor creates a predictor using the configured simulation count and seed.
// A zero seed is replaced with one taken from the clock.
func NewPredictor(cfg *PoddsConfig) *Predictor {
	sims := cfg.Simulations
	if sims < 1 {
		sims = DefaultSimulations
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Debug("Seeding predictor from clock", seed)
	}
	return &Predictor{simulations: sims, seed: seed}
}

// Simulations returns the trial count per match
func (p *Predictor) Simulations() int {
	return p.simulations
}

// Forecast predicts every match dated targetDate using the last historyWindow played matches
// dated before it. matches must be in chronological order, as Table.Matches returns them.
// Forecast only reads matches and is safe to call concurrently.
func (p *Predictor) Forecast(matches []*Match, targetDate time.Time, historyWindow int) []*Forecast {
	fixtures := matchesOn(matches, targetDate)
	if len(fixtures) == 0 {
		return nil
	}
	stats := newWindowStats(calibrationWindow(matches, targetDate, historyWindow))

	forecasts := make([]*Forecast, 0, len(fixtures))
	for _, m := range fixtures {
		forecasts = append(forecasts, p.forecastMatch(m, stats))
	}
	return forecasts
}

// Predict forecasts the matches on targetDate and attaches the predictions to them.
// Matches that could not be predicted get the NotComputed sentinel and their errors are
// returned joined; the others are still predicted.
func (p *Predictor) Predict(table *Table, targetDate time.Time, historyWindow int) ([]*Forecast, error) {
	forecasts := p.Forecast(table.Matches(), targetDate, historyWindow)
	var errs []error
	for _, f := range forecasts {
		f.Match.Prediction = f.Prediction
		if f.Err != nil {
			logger.Warn(f.Err.Error())
			errs = append(errs, f.Err)
		}
	}
	logger.Debug("Predicted", len(forecasts), "matches on", targetDate.Format(DateLayout))
	return forecasts, errors.Join(errs...)
}

// PredictOnly clears every prediction held by the table then predicts targetDate, so a
// saved table carries the predictions of one run only
func (p *Predictor) PredictOnly(table *Table, targetDate time.Time, historyWindow int) ([]*Forecast, error) {
	table.ClearPredictions()
	return p.Predict(table, targetDate, historyWindow)
}

func (p *Predictor) forecastMatch(m *Match, stats *windowStats) *Forecast {
	f := &Forecast{
		Match:             m,
		ExpectedHomeGoals: NotComputed,
		ExpectedAwayGoals: NotComputed,
		Prediction:        NonComputablePrediction(),
	}
	expHome, expAway, reason := stats.expectedGoals(m.HomeTeam, m.AwayTeam)
	if reason != "" {
		f.Err = &InsufficientDataError{Date: m.Date, HomeTeam: m.HomeTeam, AwayTeam: m.AwayTeam, Reason: reason}
		return f
	}
	f.ExpectedHomeGoals = expHome
	f.ExpectedAwayGoals = expAway
	f.Prediction = p.simulate(expHome, expAway, rand.New(rand.NewSource(p.fixtureSeed(m))))
	return f
}

// fixtureSeed gives every fixture its own reproducible stream so results do not
// depend on the order or concurrency in which matches are forecast
func (p *Predictor) fixtureSeed(m *Match) int64 {
	h := fnv.New64a()
	h.Write([]byte(m.FixtureKey()))
	return p.seed ^ int64(h.Sum64())
}

// simulate plays the match out p.simulations times and tallies the results as percentages
func (p *Predictor) simulate(expHome, expAway float64, rng *rand.Rand) Prediction {
	var homeWins, draws, awayWins, goals, overTwo, bothScore int
	for i := 0; i < p.simulations; i++ {
		h := poissonRandom(expHome, rng)
		a := poissonRandom(expAway, rng)
		switch {
		case h > a:
			homeWins++
		case h == a:
			draws++
		default:
			awayWins++
		}
		goals += h + a
		if h+a > 2 {
			overTwo++
		}
		if h > 0 && a > 0 {
			bothScore++
		}
	}
	n := float64(p.simulations)
	return Prediction{
		HomeWin:          float64(homeWins) / n * 100,
		Draw:             float64(draws) / n * 100,
		AwayWin:          float64(awayWins) / n * 100,
		TotalGoals:       float64(goals) / n,
		ThreeOrMoreGoals: float64(overTwo) / n * 100,
		BothTeamsToScore: float64(bothScore) / n * 100,
	}
}

// poissonRandom generates a single random number from Poisson distribution
// Uses Knuth's algorithm for small lambda and a normal approximation above 30
func poissonRandom(lambda float64, rng *rand.Rand) int {
	if lambda <= 0 {
		return 0
	}
	if lambda < 30 {
		L := math.Exp(-lambda)
		k := 0
		p := rng.Float64()
		for p > L {
			k++
			p *= rng.Float64()
		}
		return k
	}
	k := int(math.Round(lambda + math.Sqrt(lambda)*rng.NormFloat64()))
	if k < 0 {
		return 0
	}
	return k
}

/////////////////////////////////////////////////////////////////////////
////// Calibration window
/////////////////////////////////////////////////////////////////////////

// calibrationWindow returns the last n played matches dated strictly before date
func calibrationWindow(matches []*Match, date time.Time, n int) []*Match {
	played := playedBefore(matches, date)
	if n >= 0 && len(played) > n {
		played = played[len(played)-n:]
	}
	return played
}

type goalTally struct {
	scored   int
	conceded int
	games    int
}

func (g goalTally) meanScored() float64 {
	return float64(g.scored) / float64(g.games)
}

func (g goalTally) meanConceded() float64 {
	return float64(g.conceded) / float64(g.games)
}

// windowStats summarises a calibration window: competition averages plus each
// team's home record and away record
type windowStats struct {
	games   int
	homeAvg float64
	awayAvg float64
	home    map[string]goalTally
	away    map[string]goalTally
}

func newWindowStats(window []*Match) *windowStats {
	s := &windowStats{
		games: len(window),
		home:  make(map[string]goalTally),
		away:  make(map[string]goalTally),
	}
	var homeGoals, awayGoals int
	for _, m := range window {
		homeGoals += m.HomeScore
		awayGoals += m.AwayScore

		h := s.home[m.HomeTeam]
		h.scored += m.HomeScore
		h.conceded += m.AwayScore
		h.games++
		s.home[m.HomeTeam] = h

		a := s.away[m.AwayTeam]
		a.scored += m.AwayScore
		a.conceded += m.HomeScore
		a.games++
		s.away[m.AwayTeam] = a
	}
	if s.games > 0 {
		s.homeAvg = float64(homeGoals) / float64(s.games)
		s.awayAvg = float64(awayGoals) / float64(s.games)
	}
	return s
}

// expectedGoals applies the attack/defence model. reason is non-empty when the
// window cannot support a prediction for this pairing.
func (s *windowStats) expectedGoals(homeTeam, awayTeam string) (expHome float64, expAway float64, reason string) {
	if s.games == 0 {
		return 0, 0, "calibration window is empty"
	}
	if s.homeAvg == 0 {
		return 0, 0, "no home goals scored in calibration window"
	}
	if s.awayAvg == 0 {
		return 0, 0, "no away goals scored in calibration window"
	}
	h, ok := s.home[homeTeam]
	if !ok {
		return 0, 0, fmt.Sprintf("%s has no home matches in calibration window", homeTeam)
	}
	a, ok := s.away[awayTeam]
	if !ok {
		return 0, 0, fmt.Sprintf("%s has no away matches in calibration window", awayTeam)
	}

	homeAttack := h.meanScored() / s.homeAvg
	homeDefence := h.meanConceded() / s.awayAvg
	awayAttack := a.meanScored() / s.awayAvg
	awayDefence := a.meanConceded() / s.homeAvg

	expHome = homeAttack * awayDefence * s.homeAvg
	expAway = awayAttack * homeDefence * s.awayAvg
	return expHome, expAway, ""
}

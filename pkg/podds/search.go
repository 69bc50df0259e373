package podds

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/richard-senior/soccerprediction/internal/logger"
	"golang.org/x/sync/errgroup"
)

// SearchResult is the best (history, cutoff) pair found by a search
type SearchResult struct {
	HistoryLength    int     `json:"historyLength"`
	Cutoff           float64 `json:"cutoff"`
	Accuracy         float64 `json:"accuracy"`
	GamesAboveCutoff int     `json:"gamesAboveCutoff"`
	Correct          int     `json:"correct"`
	PossibleGames    int     `json:"possibleGames"`
}

// Searcher backtests the parameter space against realised results
type Searcher struct {
	predictor *Predictor
	space     ParameterSpace
	objective Objective
	workers   int
}

// NewSearcher creates a searcher over the default parameter space scored by HitRate
func NewSearcher(cfg *PoddsConfig) *Searcher {
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Searcher{
		predictor: NewPredictor(cfg),
		space:     DefaultParameterSpace(),
		objective: HitRate,
		workers:   workers,
	}
}

// WithSpace replaces the parameter space searched
func (s *Searcher) WithSpace(space ParameterSpace) *Searcher {
	s.space = space
	return s
}

// WithObjective replaces the scoring function
func (s *Searcher) WithObjective(objective Objective) *Searcher {
	s.objective = objective
	return s
}

// Search scores every pair of the parameter space over window and returns the best.
// A pair replaces the best so far when it is more accurate, or equally accurate with more
// confident predictions, and it passes the coverage guard. When no pair does,
// ErrNoQualifyingConfiguration is returned. The table is only read.
func (s *Searcher) Search(ctx context.Context, table *Table, window DateWindow) (*SearchResult, error) {
	started := time.Now()
	histories := s.space.History.Values()
	logger.Info("Searching", len(s.space.Pairs()), "parameter combinations over", window.String())

	forecasts, err := s.forecastHistories(ctx, table.Matches(), histories, window)
	if err != nil {
		return nil, err
	}

	var best *SearchResult
	for _, pair := range s.space.Pairs() {
		score := s.objective(forecasts[pair.History], pair.Cutoff)
		if !score.Qualifies() {
			continue
		}
		accuracy := score.Accuracy()
		bestAccuracy, bestGames := 0.0, 0
		if best != nil {
			bestAccuracy, bestGames = best.Accuracy, best.GamesAboveCutoff
		}
		if accuracy > bestAccuracy || (accuracy == bestAccuracy && score.Total > bestGames) {
			best = &SearchResult{
				HistoryLength:    pair.History,
				Cutoff:           pair.Cutoff,
				Accuracy:         accuracy,
				GamesAboveCutoff: score.Total,
				Correct:          score.Correct,
				PossibleGames:    score.Possible,
			}
			logger.Info(fmt.Sprintf("History:%d Cutoff:%.2f Score:%.2f%%", pair.History, pair.Cutoff, accuracy))
			logger.Info(fmt.Sprintf("%d/%d results predicted correctly from %d possible games",
				score.Correct, score.Total, score.Possible))
		}
	}

	logger.Debug("Search finished in", time.Since(started).String())
	if best == nil {
		return nil, ErrNoQualifyingConfiguration
	}
	return best, nil
}

// forecastHistories forecasts the window once per history length. Forecasts do not depend
// on the cutoff, so every pair sharing a history is scored from the same forecasts.
// Each worker reads the shared matches and writes only its own slot.
func (s *Searcher) forecastHistories(ctx context.Context, matches []*Match, histories []int, window DateWindow) (map[int][]*Forecast, error) {
	results := make([][]*Forecast, len(histories))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, history := range histories {
		g.Go(func() error {
			forecasts, err := s.forecastWindow(ctx, matches, history, window)
			if err != nil {
				return err
			}
			results[i] = forecasts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search aborted: %w", err)
	}

	byHistory := make(map[int][]*Forecast, len(histories))
	for i, history := range histories {
		byHistory[history] = results[i]
	}
	return byHistory, nil
}

// forecastWindow forecasts every day of the window that has at least one played match
func (s *Searcher) forecastWindow(ctx context.Context, matches []*Match, history int, window DateWindow) ([]*Forecast, error) {
	var forecasts []*Forecast
	skipped := 0
	for _, date := range window.Dates() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !anyPlayed(matchesOn(matches, date)) {
			continue
		}
		for _, f := range s.predictor.Forecast(matches, date, history) {
			if f.Err != nil {
				skipped++
			}
			forecasts = append(forecasts, f)
		}
	}
	if skipped > 0 {
		logger.Debug(fmt.Sprintf("history %d: %d of %d matches could not be predicted", history, skipped, len(forecasts)))
	}
	return forecasts, nil
}

func anyPlayed(matches []*Match) bool {
	for _, m := range matches {
		if m.HasBeenPlayed() {
			return true
		}
	}
	return false
}

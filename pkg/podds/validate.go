package podds

import (
	"context"
	"fmt"

	"github.com/richard-senior/soccerprediction/internal/logger"
)

// Validate scores a fixed (history, cutoff) pair over window with the searcher's objective.
// It is the confirmation step run on the window after the search window; the table is only read.
func (s *Searcher) Validate(ctx context.Context, table *Table, history int, cutoff float64, window DateWindow) (Score, error) {
	forecasts, err := s.forecastWindow(ctx, table.Matches(), history, window)
	if err != nil {
		return Score{}, fmt.Errorf("validation aborted: %w", err)
	}
	score := s.objective(forecasts, cutoff)
	logger.Info(fmt.Sprintf("Validation over %s: %d/%d correct from %d possible games",
		window.String(), score.Correct, score.Total, score.Possible))
	return score, nil
}

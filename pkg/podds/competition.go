package podds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/richard-senior/soccerprediction/internal/logger"
	"github.com/richard-senior/soccerprediction/pkg/util"
)

// GetCompetitionData loads the stored table or, on a first run, fetches every season
// from cfg.StartSeason to the current one and stores the result
func GetCompetitionData(ctx context.Context, cfg *PoddsConfig, store ResultsStore, fetcher ResultsFetcher) (*Table, error) {
	table, _, err := loadOrFetch(ctx, cfg, store, fetcher)
	return table, err
}

// loadOrFetch is GetCompetitionData, also reporting whether the table was just fetched
func loadOrFetch(ctx context.Context, cfg *PoddsConfig, store ResultsStore, fetcher ResultsFetcher) (*Table, bool, error) {
	if store.Exists() {
		table, err := store.Load()
		if err != nil {
			return nil, false, fmt.Errorf("failed to load %s %s: %w", cfg.Country, cfg.Competition, err)
		}
		return table, false, nil
	}

	current := CurrentSeason(time.Now())
	logger.Info("No stored data for", cfg.Country, cfg.Competition, "fetching seasons", cfg.StartSeason, "to", current)
	table := NewTable(cfg.Country, cfg.Competition)
	for season := cfg.StartSeason; season <= current; season++ {
		matches, err := fetcher.FetchSeason(ctx, cfg.Country, cfg.Competition, season)
		if err != nil {
			return nil, false, fmt.Errorf("failed to fetch season %s: %w", SeasonLabel(season), err)
		}
		if err := table.AddAll(matches); err != nil {
			logger.Warn("Some fetched matches were not added", err.Error())
		}
	}

	if err := store.Save(table); err != nil {
		return nil, false, err
	}
	return table, true, nil
}

// UpdateCompetitionData copies final scores from freshly fetched matches onto table records
// that are still unplayed and dated on or before today, matching on (date, home team).
// A fetched counterpart that is itself unplayed leaves the record pending. A due record with
// no counterpart is reported as a *MissingUpdateDataError. Played records are never changed.
// Returns the number of records updated.
func UpdateCompetitionData(table *Table, latest []*Match, today time.Time) (int, error) {
	today = DateOf(today)
	index := indexMatches(latest)

	var errs []error
	updated := 0
	for _, m := range table.Matches() {
		if m.HasBeenPlayed() || m.Date.After(today) {
			continue
		}
		fetched, ok := index[m.Key()]
		if !ok {
			errs = append(errs, &MissingUpdateDataError{
				Date:       m.Date,
				HomeTeam:   m.HomeTeam,
				Suggestion: suggestHomeTeam(latest, m),
			})
			continue
		}
		if !fetched.HasBeenPlayed() {
			continue
		}
		m.HomeScore = fetched.HomeScore
		m.AwayScore = fetched.AwayScore
		updated++
		logger.Debug("Updated", m.String())
	}
	return updated, errors.Join(errs...)
}

// RefreshCompetitionData fetches the current season, merges its results and new fixtures
// into the stored table and saves it. Missing update data is returned alongside the saved
// table rather than failing the refresh. A table built by this call is already current.
func RefreshCompetitionData(ctx context.Context, cfg *PoddsConfig, store ResultsStore, fetcher ResultsFetcher) (*Table, error) {
	table, fetched, err := loadOrFetch(ctx, cfg, store, fetcher)
	if err != nil || fetched {
		return table, err
	}

	today := DateOf(time.Now())
	season := CurrentSeason(today)
	latest, err := fetcher.FetchSeason(ctx, cfg.Country, cfg.Competition, season)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch season %s: %w", SeasonLabel(season), err)
	}

	updated, updateErr := UpdateCompetitionData(table, latest, today)
	added := addNewFixtures(table, latest, today, suggestedKeys(updateErr))
	logger.Info(fmt.Sprintf("Updated %d results and added %d new fixtures", updated, added))

	if err := store.Save(table); err != nil {
		return nil, err
	}
	return table, updateErr
}

// addNewFixtures adds fetched fixtures the table does not have, such as rearranged matches.
// Only unplayed fixtures from today on are added; a past or played record missing from the
// table is a reconciliation problem, not a new fixture. Keys in skip were offered as
// corrections for stored records and are never added.
func addNewFixtures(table *Table, latest []*Match, today time.Time, skip map[string]bool) int {
	today = DateOf(today)
	index := table.Index()
	added := 0
	for _, m := range latest {
		if m.HasBeenPlayed() || m.Date.Before(today) || skip[m.Key()] {
			continue
		}
		// the home team already has a record that day
		if _, exists := index[m.Key()]; exists {
			continue
		}
		if err := table.Add(m); err != nil {
			logger.Warn("Could not add fetched match", err.Error())
			continue
		}
		index[m.Key()] = m
		added++
	}
	return added
}

// suggestedKeys returns the (date, home team) keys suggested by the MissingUpdateDataErrors in err
func suggestedKeys(err error) map[string]bool {
	keys := make(map[string]bool)
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case *MissingUpdateDataError:
			if e.Suggestion != "" {
				keys[MatchKey(e.Date, e.Suggestion)] = true
			}
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		}
	}
	walk(err)
	return keys
}

// suggestHomeTeam returns the closest home team fetched for the same day, if any
func suggestHomeTeam(latest []*Match, m *Match) string {
	var candidates []string
	for _, f := range matchesOn(latest, m.Date) {
		candidates = append(candidates, f.HomeTeam)
	}
	best, distance := util.ClosestMatch(m.HomeTeam, candidates)
	if best == "" || distance > len(m.HomeTeam)/2 {
		return ""
	}
	return best
}

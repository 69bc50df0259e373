package podds

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/richard-senior/soccerprediction/internal/logger"
)

// header written by CSVStore; loading finds columns by name so the order is not required
var csvHeader = []string{
	"date", "homeTeam", "awayTeam", "homeScore", "awayScore", "season",
	"homeWin", "draw", "awayWin", "totalGoals", "threeOrMoreGoals", "bothTeamsToScore",
}

var requiredColumns = []string{"date", "homeTeam", "awayTeam", "homeScore", "awayScore", "season"}

// CSVStore keeps a competition table in a single CSV file
type CSVStore struct {
	path        string
	country     string
	competition string
}

// NewCSVStore creates a store for the file at path
func NewCSVStore(path, country, competition string) *CSVStore {
	return &CSVStore{path: path, country: country, competition: competition}
}

// Path returns the file the store reads and writes
func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load reads the table. Rows with inconsistent scores or duplicated fixtures are
// logged and skipped; a missing column or an unparseable value fails the load.
func (s *CSVStore) Load() (*Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", s.path, err)
	}

	table := NewTable(s.country, s.competition)
	if len(records) == 0 {
		return table, nil
	}

	columns := make(map[string]int)
	for i, h := range records[0] {
		// tables written by pandas lead with an unnamed index column
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h != "" {
			columns[h] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			return nil, fmt.Errorf("malformed table %s: missing column %q", s.path, c)
		}
	}

	for i, record := range records[1:] {
		row := make(map[string]string, len(columns))
		for name, idx := range columns {
			if idx < len(record) {
				row[name] = strings.TrimSpace(record[idx])
			}
		}
		m, err := parseMatchRow(row)
		if err != nil {
			return nil, fmt.Errorf("malformed table %s at row %d: %w", s.path, i+2, err)
		}
		if err := table.Add(m); err != nil {
			var inconsistent *InconsistentScoreError
			if errors.As(err, &inconsistent) {
				logger.Warn("Skipping row with inconsistent score", i+2, err.Error())
				continue
			}
			logger.Warn("Skipping duplicate row", i+2, err.Error())
		}
	}
	logger.Debug("Loaded", table.Len(), "matches from", s.path)
	return table, nil
}

// Save writes the table to a temporary file then renames it over the old one
func (s *CSVStore) Save(t *Table) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, m := range t.Matches() {
		if err := w.Write(formatMatchRow(m)); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write %s: %w", m, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	logger.Info("Saved", t.Len(), "matches to", s.path)
	return nil
}

func formatMatchRow(m *Match) []string {
	p := m.Prediction
	return []string{
		m.Date.Format(DateLayout),
		m.HomeTeam,
		m.AwayTeam,
		strconv.Itoa(m.HomeScore),
		strconv.Itoa(m.AwayScore),
		strconv.Itoa(m.Season),
		formatFloat(p.HomeWin),
		formatFloat(p.Draw),
		formatFloat(p.AwayWin),
		formatFloat(p.TotalGoals),
		formatFloat(p.ThreeOrMoreGoals),
		formatFloat(p.BothTeamsToScore),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseMatchRow(row map[string]string) (*Match, error) {
	date, err := ParseDate(row["date"])
	if err != nil {
		return nil, err
	}
	homeScore, err := parseIntField("homeScore", row)
	if err != nil {
		return nil, err
	}
	awayScore, err := parseIntField("awayScore", row)
	if err != nil {
		return nil, err
	}
	season, err := ParseSeason(row["season"])
	if err != nil {
		return nil, err
	}
	if row["homeTeam"] == "" || row["awayTeam"] == "" {
		return nil, fmt.Errorf("missing team name")
	}

	m := NewResult(date, row["homeTeam"], row["awayTeam"], homeScore, awayScore, season)
	m.Prediction = Prediction{
		HomeWin:          parseFloatField("homeWin", row),
		Draw:             parseFloatField("draw", row),
		AwayWin:          parseFloatField("awayWin", row),
		TotalGoals:       parseFloatField("totalGoals", row),
		ThreeOrMoreGoals: parseFloatField("threeOrMoreGoals", row),
		BothTeamsToScore: parseFloatField("bothTeamsToScore", row),
	}
	return m, nil
}

// parseIntField accepts integers and whole floats ie. "2" or "2.0"
func parseIntField(field string, row map[string]string) (int, error) {
	v := row[field]
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid %s %q", field, v)
	}
	return int(f), nil
}

// parseFloatField returns NotComputed for a blank, missing or unparseable prediction column
func parseFloatField(field string, row map[string]string) float64 {
	v, ok := row[field]
	if !ok || v == "" {
		return NotComputed
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return NotComputed
	}
	return f
}

package podds

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/richard-senior/soccerprediction/internal/logger"
	_ "modernc.org/sqlite"
)

const matchTableName = "results"

// matchRow is the persisted shape of a Match. The struct tags drive the schema.
type matchRow struct {
	Date      string `column:"date" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`
	HomeTeam  string `column:"home_team" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`
	AwayTeam  string `column:"away_team" dbtype:"TEXT NOT NULL" primary:"true"`
	HomeScore int    `column:"home_score" dbtype:"INTEGER DEFAULT -1"`
	AwayScore int    `column:"away_score" dbtype:"INTEGER DEFAULT -1"`
	Season    int    `column:"season" dbtype:"INTEGER NOT NULL" index:"true"`

	// Poisson prediction fields
	HomeWin          float64 `column:"home_win" dbtype:"REAL DEFAULT -1.0"`
	Draw             float64 `column:"draw" dbtype:"REAL DEFAULT -1.0"`
	AwayWin          float64 `column:"away_win" dbtype:"REAL DEFAULT -1.0"`
	TotalGoals       float64 `column:"total_goals" dbtype:"REAL DEFAULT -1.0"`
	ThreeOrMoreGoals float64 `column:"three_or_more_goals" dbtype:"REAL DEFAULT -1.0"`
	BothTeamsToScore float64 `column:"both_teams_to_score" dbtype:"REAL DEFAULT -1.0"`
}

func newMatchRow(m *Match) *matchRow {
	return &matchRow{
		Date:             m.Date.Format(DateLayout),
		HomeTeam:         m.HomeTeam,
		AwayTeam:         m.AwayTeam,
		HomeScore:        m.HomeScore,
		AwayScore:        m.AwayScore,
		Season:           m.Season,
		HomeWin:          m.Prediction.HomeWin,
		Draw:             m.Prediction.Draw,
		AwayWin:          m.Prediction.AwayWin,
		TotalGoals:       m.Prediction.TotalGoals,
		ThreeOrMoreGoals: m.Prediction.ThreeOrMoreGoals,
		BothTeamsToScore: m.Prediction.BothTeamsToScore,
	}
}

func (r *matchRow) toMatch() (*Match, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	m := NewResult(date, r.HomeTeam, r.AwayTeam, r.HomeScore, r.AwayScore, r.Season)
	m.Prediction = Prediction{
		HomeWin:          r.HomeWin,
		Draw:             r.Draw,
		AwayWin:          r.AwayWin,
		TotalGoals:       r.TotalGoals,
		ThreeOrMoreGoals: r.ThreeOrMoreGoals,
		BothTeamsToScore: r.BothTeamsToScore,
	}
	return m, nil
}

// SQLiteStore keeps a competition table in an embedded SQLite file
type SQLiteStore struct {
	path        string
	country     string
	competition string
}

// NewSQLiteStore creates a store for the database file at path
func NewSQLiteStore(path, country, competition string) *SQLiteStore {
	return &SQLiteStore{path: path, country: country, competition: competition}
}

// Path returns the database file
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

func (s *SQLiteStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Test the connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Load reads every match in chronological order
func (s *SQLiteStore) Load() (*Table, error) {
	if !s.Exists() {
		return nil, fmt.Errorf("database %s does not exist", s.path)
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	columns, _ := getSelectData(&matchRow{})
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY date, home_team, away_team", strings.Join(columns, ", "), matchTableName)
	logger.Debug("Load SQL", query)

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", matchTableName, err)
	}
	defer rows.Close()

	table := NewTable(s.country, s.competition)
	for rows.Next() {
		row := &matchRow{}
		_, destinations := getSelectData(row)
		if err := rows.Scan(destinations...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", matchTableName, err)
		}
		m, err := row.toMatch()
		if err != nil {
			return nil, fmt.Errorf("malformed table %s: %w", s.path, err)
		}
		if err := table.Add(m); err != nil {
			var inconsistent *InconsistentScoreError
			if !errors.As(err, &inconsistent) {
				return nil, fmt.Errorf("malformed table %s: %w", s.path, err)
			}
			logger.Warn("Skipping record with inconsistent score", err.Error())
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows from %s: %w", matchTableName, err)
	}
	logger.Debug("Loaded", table.Len(), "matches from", s.path)
	return table, nil
}

// Save replaces the stored table with t in a single transaction
func (s *SQLiteStore) Save(t *Table) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := createTable(db, &matchRow{}, matchTableName); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + matchTableName); err != nil {
		return fmt.Errorf("failed to clear %s: %w", matchTableName, err)
	}

	columns, placeholders, _ := getInsertData(&matchRow{})
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		matchTableName, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	logger.Debug("Insert SQL", query)

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range t.Matches() {
		_, _, values := getInsertData(newMatchRow(m))
		if _, err := stmt.Exec(values...); err != nil {
			return fmt.Errorf("failed to insert %s: %w", m, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	logger.Info("Saved", t.Len(), "matches to", s.path)
	return nil
}

/////////////////////////////////////////////////////////////////////////
////// Struct tag schema
/////////////////////////////////////////////////////////////////////////

// persistedFields returns the exported fields carrying a dbtype tag, with their column names
func persistedFields(objType reflect.Type) ([]reflect.StructField, []string) {
	var fields []reflect.StructField
	var columns []string
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		// Skip fields without database type
		if field.Tag.Get("dbtype") == "" {
			continue
		}

		columnName := field.Tag.Get("column")
		if columnName == "" {
			columnName = strings.ToLower(field.Name)
		}
		fields = append(fields, field)
		columns = append(columns, columnName)
	}
	return fields, columns
}

func structType(obj any) reflect.Type {
	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}
	return objType
}

// createTable creates the table and its indexes from the struct tags of obj
func createTable(db *sql.DB, obj any, tableName string) error {
	createSQL := generateCreateTableSQL(obj, tableName)
	logger.Debug("Creating table with SQL", createSQL)
	if _, err := db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	for _, query := range generateIndexSQL(obj, tableName) {
		logger.Debug("Creating index with SQL", query)
		if _, err := db.Exec(query); err != nil {
			logger.Warn("Failed to create index", err)
		}
	}
	return nil
}

// generateCreateTableSQL generates CREATE TABLE SQL from struct tags
func generateCreateTableSQL(obj any, tableName string) string {
	fields, names := persistedFields(structType(obj))

	var columns []string
	var primaryKeys []string
	for i, field := range fields {
		dbType := field.Tag.Get("dbtype")
		if field.Tag.Get("primary") == "true" {
			primaryKeys = append(primaryKeys, names[i])
		}
		columns = append(columns, fmt.Sprintf("%s %s", names[i], dbType))
	}

	// compound primary key
	if len(primaryKeys) > 0 {
		columns = append(columns, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primaryKeys, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, strings.Join(columns, ", "))
}

// generateIndexSQL generates index creation SQL from struct tags
func generateIndexSQL(obj any, tableName string) []string {
	fields, names := persistedFields(structType(obj))

	var indexSQL []string
	for i, field := range fields {
		if field.Tag.Get("index") == "" {
			continue
		}
		indexName := fmt.Sprintf("idx_%s_%s", tableName, names[i])
		indexSQL = append(indexSQL, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", indexName, tableName, names[i]))
	}
	return indexSQL
}

// getInsertData extracts column names, placeholders, and values for INSERT
func getInsertData(obj any) ([]string, []string, []any) {
	objValue := reflect.ValueOf(obj)
	if objValue.Kind() == reflect.Ptr {
		objValue = objValue.Elem()
	}
	fields, columns := persistedFields(objValue.Type())

	placeholders := make([]string, len(fields))
	values := make([]any, len(fields))
	for i, field := range fields {
		placeholders[i] = "?"
		values[i] = objValue.FieldByIndex(field.Index).Interface()
	}
	return columns, placeholders, values
}

// getSelectData extracts column names and scan destinations for SELECT
func getSelectData(obj any) ([]string, []any) {
	objValue := reflect.ValueOf(obj)
	if objValue.Kind() == reflect.Ptr {
		objValue = objValue.Elem()
	}
	fields, columns := persistedFields(objValue.Type())

	destinations := make([]any, len(fields))
	for i, field := range fields {
		destinations[i] = objValue.FieldByIndex(field.Index).Addr().Interface()
	}
	return columns, destinations
}

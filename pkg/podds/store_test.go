package podds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	table := NewTable("England", "Premier League")
	played := NewResult(mustDate(t, "2024-03-01"), "Chelsea", "Arsenal", 2, 2, 2023)
	predicted := NewMatch(mustDate(t, "2024-03-09"), "Arsenal", "Leeds", 2023)
	predicted.Prediction = Prediction{HomeWin: 61.234, Draw: 22.5, AwayWin: 16.266, TotalGoals: 2.91, ThreeOrMoreGoals: 55.1, BothTeamsToScore: 47.25}
	require.NoError(t, table.AddAll([]*Match{played, predicted}))
	return table
}

func assertSameTable(t *testing.T, want, got *Table) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	for i, m := range want.Matches() {
		g := got.Matches()[i]
		assert.True(t, m.Date.Equal(g.Date))
		assert.Equal(t, m.HomeTeam, g.HomeTeam)
		assert.Equal(t, m.AwayTeam, g.AwayTeam)
		assert.Equal(t, m.HomeScore, g.HomeScore)
		assert.Equal(t, m.AwayScore, g.AwayScore)
		assert.Equal(t, m.Season, g.Season)
		assert.Equal(t, m.Prediction, g.Prediction)
	}
}

func TestNewStore(t *testing.T) {
	cfg := DefaultPoddsConfig()
	cfg.DataPath = t.TempDir()

	store, err := NewStore(cfg)
	require.NoError(t, err)
	csvStore, ok := store.(*CSVStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cfg.DataPath, "England-Premier-League.csv"), csvStore.Path())

	cfg.Store = StoreSQLite
	store, err = NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)

	cfg.Store = "bogus"
	_, err = NewStore(cfg)
	assert.Error(t, err)
}

func TestCSVStoreSaveAndLoad(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "data", "England-Premier-League.csv"), "England", "Premier League")
	assert.False(t, store.Exists())

	table := sampleTable(t)
	require.NoError(t, store.Save(table))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "England", loaded.Country)
	assertSameTable(t, table, loaded)
}

func TestCSVStoreLoadsPandasTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "England-Premier-League.csv")
	csv := ",date,homeTeam,homeScore,awayScore,awayTeam,season\n" +
		"0,2014-08-16,Arsenal,2,1,Crystal Palace,2014\n" +
		"1,2014-08-16,Leicester City,2.0,2.0,Everton,2014\n" +
		"2,2014-08-17,Burnley,3,-1,Chelsea,2014\n" +
		"3,2015-05-24,Arsenal,-1,-1,West Brom,2014\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	table, err := NewCSVStore(path, "England", "Premier League").Load()
	require.NoError(t, err)

	t.Log("The row with half a score is skipped")
	require.Equal(t, 3, table.Len())
	leicester := table.Get(mustDate(t, "2014-08-16"), "Leicester City", "Everton")
	require.NotNil(t, leicester)
	assert.Equal(t, 2, leicester.HomeScore)
	assert.False(t, leicester.Prediction.IsComputable())
	assert.False(t, table.Get(mustDate(t, "2015-05-24"), "Arsenal", "West Brom").HasBeenPlayed())
}

func TestCSVStoreRejectsMalformedTables(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"missing column": "date,homeTeam,awayTeam,homeScore,season\n2014-08-16,Arsenal,Palace,2,2014\n",
		"bad date":       "date,homeTeam,awayTeam,homeScore,awayScore,season\n16/08/2014,Arsenal,Palace,2,1,2014\n",
		"bad score":      "date,homeTeam,awayTeam,homeScore,awayScore,season\n2014-08-16,Arsenal,Palace,two,1,2014\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".csv")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := NewCSVStore(path, "England", "Premier League").Load()
			assert.Error(t, err)
		})
	}
}

func TestSQLiteStoreSaveAndLoad(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "England-Premier-League.db"), "England", "Premier League")
	assert.False(t, store.Exists())
	_, err := store.Load()
	assert.Error(t, err)

	table := sampleTable(t)
	require.NoError(t, store.Save(table))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	assertSameTable(t, table, loaded)

	t.Log("Saving replaces the stored table")
	smaller := NewTable("England", "Premier League")
	require.NoError(t, smaller.Add(NewResult(mustDate(t, "2024-04-01"), "Fulham", "Leeds", 0, 1, 2023)))
	require.NoError(t, store.Save(smaller))

	loaded, err = store.Load()
	require.NoError(t, err)
	assertSameTable(t, smaller, loaded)
}

func TestGenerateCreateTableSQL(t *testing.T) {
	sql := generateCreateTableSQL(&matchRow{}, matchTableName)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS results (")
	assert.Contains(t, sql, "home_score INTEGER DEFAULT -1")
	assert.Contains(t, sql, "PRIMARY KEY (date, home_team, away_team)")

	indexes := generateIndexSQL(&matchRow{}, matchTableName)
	assert.Contains(t, indexes, "CREATE INDEX IF NOT EXISTS idx_results_season ON results(season)")
}

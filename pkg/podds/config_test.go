package podds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultPoddsConfig()
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, "England", cfg.Country)
	assert.Equal(t, "Premier League", cfg.Competition)
	assert.Equal(t, 100, cfg.History)
	assert.Equal(t, -1.0, cfg.Cutoff)
	assert.Equal(t, 100000, cfg.Simulations)
	assert.Equal(t, 60, cfg.TestDays)
	assert.Equal(t, "England-Premier-League", cfg.TableName())
	assert.Equal(t, filepath.Join("data", "cache"), cfg.CachePath())
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*PoddsConfig)
	}{
		{"no country", func(c *PoddsConfig) { c.Country = "" }},
		{"bad date", func(c *PoddsConfig) { c.Date = "20/09/2017" }},
		{"no history", func(c *PoddsConfig) { c.History = 0 }},
		{"cutoff over 100", func(c *PoddsConfig) { c.Cutoff = 101 }},
		{"too few simulations", func(c *PoddsConfig) { c.Simulations = 10 }},
		{"no test days", func(c *PoddsConfig) { c.TestDays = 0 }},
		{"no workers", func(c *PoddsConfig) { c.Workers = 0 }},
		{"no request rate", func(c *PoddsConfig) { c.RequestsPerMinute = 0 }},
		{"unknown store", func(c *PoddsConfig) { c.Store = "postgres" }},
		{"unknown renderer", func(c *PoddsConfig) { c.Renderer = "phantomjs" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPoddsConfig()
			tt.modify(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("country: Spain\ncompetition: La Liga\nhistory: 150\ncutoff: 55\nstore: sqlite\n"), 0644))

	cfg := DefaultPoddsConfig()
	require.NoError(t, cfg.LoadConfigFile(path))
	assert.Equal(t, "Spain", cfg.Country)
	assert.Equal(t, "La Liga", cfg.Competition)
	assert.Equal(t, 150, cfg.History)
	assert.Equal(t, 55.0, cfg.Cutoff)
	assert.Equal(t, StoreSQLite, cfg.Store)

	t.Log("Values absent from the file keep their defaults")
	assert.Equal(t, 100000, cfg.Simulations)

	assert.Error(t, cfg.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PODDS_COUNTRY":   "Scotland",
		"PODDS_HISTORY":   "75",
		"PODDS_CUTOFF":    "60",
		"PODDS_SEED":      "99",
		"PODDS_TEST_DAYS": "30",

		"PODDS_REQUESTS_PER_MINUTE": "6",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultPoddsConfig()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "Scotland", cfg.Country)
	assert.Equal(t, "Premier League", cfg.Competition)
	assert.Equal(t, 75, cfg.History)
	assert.Equal(t, 60.0, cfg.Cutoff)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 30, cfg.TestDays)
	assert.Equal(t, 6, cfg.RequestsPerMinute)

	env["PODDS_HISTORY"] = "lots"
	assert.Error(t, cfg.ApplyEnv(lookup))
}

package podds

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/richard-senior/soccerprediction/pkg/util"
	"gopkg.in/yaml.v3"
)

// Store and renderer names accepted by the configuration
const (
	StoreCSV        = "csv"
	StoreSQLite     = "sqlite"
	RendererHTTP    = "http"
	RendererBrowser = "browser"
)

// EnvPrefix prefixes every environment variable the configuration reads
const EnvPrefix = "PODDS_"

// PoddsConfig contains every parameter that influences a run.
// It is built once at startup and passed to each entry point.
type PoddsConfig struct {
	// === Competition ===
	Country     string `yaml:"country"`     // Country the competition is played in (default: England)
	Competition string `yaml:"competition"` // Competition or league name (default: Premier League)
	StartSeason int    `yaml:"startSeason"` // First season to fetch on a first run (default: 2014)

	// === Run ===
	Date     string `yaml:"date"`     // Date of matches to predict, YYYY-MM-DD (default: today)
	DataPath string `yaml:"dataPath"` // Directory holding the results tables and cache (default: data/)
	Update   bool   `yaml:"update"`   // Fetch the latest results before predicting
	Search   bool   `yaml:"search"`   // Run the parameter search and validation instead of predicting

	// === Core prediction parameters ===
	History     int     `yaml:"history"`     // Played matches in the calibration window (default: 100)
	Cutoff      float64 `yaml:"cutoff"`      // Probability above which a pick is reported, -1 disables (default: -1)
	Simulations int     `yaml:"simulations"` // Monte Carlo trials per match (default: 100000)
	Seed        int64   `yaml:"seed"`        // Random seed, 0 seeds from the clock (default: 0)

	// === Parameter search ===
	LookbackDays int `yaml:"lookbackDays"` // Days before the run date the search window starts (default: 365)
	TestDays     int `yaml:"testDays"`     // Length of the search and validation windows in days (default: 60)
	Workers      int `yaml:"workers"`      // Concurrent forecast workers (default: number of CPUs)

	// === Collaborators ===
	Store             string `yaml:"store"`             // Results store, csv or sqlite (default: csv)
	Renderer          string `yaml:"renderer"`          // Page source, http or browser (default: http)
	RequestsPerMinute int    `yaml:"requestsPerMinute"` // Pages fetched per minute at most (default: 20)
}

// DefaultPoddsConfig returns the default configuration with all standard values
func DefaultPoddsConfig() *PoddsConfig {
	return &PoddsConfig{
		Country:     "England",
		Competition: "Premier League",
		StartSeason: 2014,

		Date:     time.Now().Format(DateLayout),
		DataPath: "data/",

		History:     100,
		Cutoff:      -1,
		Simulations: 100000,
		Seed:        0,

		LookbackDays: 365,
		TestDays:     60,
		Workers:      runtime.NumCPU(),

		Store:             StoreCSV,
		Renderer:          RendererHTTP,
		RequestsPerMinute: 20,
	}
}

// LoadConfigFile overlays the values present in a YAML file onto c
func (c *PoddsConfig) LoadConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays PODDS_* environment variables onto c.
// lookup is normally os.LookupEnv.
func (c *PoddsConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s must be an integer, got: %q", EnvPrefix, name, v)
		}
		*dst = n
		return nil
	}

	str("COUNTRY", &c.Country)
	str("COMPETITION", &c.Competition)
	str("DATE", &c.Date)
	str("DATA_PATH", &c.DataPath)
	str("STORE", &c.Store)
	str("RENDERER", &c.Renderer)

	for name, dst := range map[string]*int{
		"START_SEASON":        &c.StartSeason,
		"HISTORY":             &c.History,
		"SIMULATIONS":         &c.Simulations,
		"LOOKBACK_DAYS":       &c.LookbackDays,
		"TEST_DAYS":           &c.TestDays,
		"WORKERS":             &c.Workers,
		"REQUESTS_PER_MINUTE": &c.RequestsPerMinute,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(EnvPrefix + "CUTOFF"); ok && v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%sCUTOFF must be a number, got: %q", EnvPrefix, v)
		}
		c.Cutoff = f
	}
	if v, ok := lookup(EnvPrefix + "SEED"); ok && v != "" {
		s, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED must be an integer, got: %q", EnvPrefix, v)
		}
		c.Seed = s
	}
	return nil
}

// TargetDate returns the configured date as a time
func (c *PoddsConfig) TargetDate() (time.Time, error) {
	return ParseDate(c.Date)
}

// TableName is the file stem for the competition ie. "England-Premier-League"
func (c *PoddsConfig) TableName() string {
	return c.Country + "-" + util.Slug(c.Competition)
}

// CachePath is where downloaded pages of completed seasons are kept
func (c *PoddsConfig) CachePath() string {
	return filepath.Join(c.DataPath, "cache")
}

// === CONFIGURATION VALIDATION ===

// ValidateConfig ensures all configuration values are within reasonable ranges
func ValidateConfig(config *PoddsConfig) error {
	if config.Country == "" {
		return fmt.Errorf("Country must be set")
	}

	if config.Competition == "" {
		return fmt.Errorf("Competition must be set")
	}

	if _, err := ParseDate(config.Date); err != nil {
		return fmt.Errorf("Date must be YYYY-MM-DD, got: %q", config.Date)
	}

	if config.History < 1 {
		return fmt.Errorf("History must be at least 1, got: %d", config.History)
	}

	if config.Cutoff > 100 {
		return fmt.Errorf("Cutoff must be a percentage no greater than 100, got: %f", config.Cutoff)
	}

	if config.Simulations < 1000 {
		return fmt.Errorf("Simulations should be at least 1000 for accuracy, got: %d", config.Simulations)
	}

	if config.StartSeason < 1900 {
		return fmt.Errorf("StartSeason must be a four digit year, got: %d", config.StartSeason)
	}

	if config.LookbackDays < 1 {
		return fmt.Errorf("LookbackDays must be at least 1, got: %d", config.LookbackDays)
	}

	if config.TestDays < 1 {
		return fmt.Errorf("TestDays must be at least 1, got: %d", config.TestDays)
	}

	if config.Workers < 1 {
		return fmt.Errorf("Workers must be at least 1, got: %d", config.Workers)
	}

	if config.RequestsPerMinute < 1 {
		return fmt.Errorf("RequestsPerMinute must be at least 1, got: %d", config.RequestsPerMinute)
	}

	switch config.Store {
	case StoreCSV, StoreSQLite:
	default:
		return fmt.Errorf("Store must be %s or %s, got: %q", StoreCSV, StoreSQLite, config.Store)
	}

	switch config.Renderer {
	case RendererHTTP, RendererBrowser:
	default:
		return fmt.Errorf("Renderer must be %s or %s, got: %q", RendererHTTP, RendererBrowser, config.Renderer)
	}

	return nil
}

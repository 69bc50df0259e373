package podds

import (
	"fmt"
	"path/filepath"
)

// ResultsStore persists a competition's table
type ResultsStore interface {
	// Exists reports whether a table has been saved before
	Exists() bool
	// Load reads the whole table. A malformed table is an error.
	Load() (*Table, error)
	// Save replaces the stored table with t
	Save(t *Table) error
}

// NewStore returns the store selected by cfg.Store for the configured competition
func NewStore(cfg *PoddsConfig) (ResultsStore, error) {
	base := filepath.Join(cfg.DataPath, cfg.TableName())
	switch cfg.Store {
	case StoreCSV, "":
		return NewCSVStore(base+".csv", cfg.Country, cfg.Competition), nil
	case StoreSQLite:
		return NewSQLiteStore(base+".db", cfg.Country, cfg.Competition), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

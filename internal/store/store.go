package store

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"theramuse/internal/config"
)

// Store manages therapy persistence backed by SQLite: sessions,
// recommendations, feedback events and the bandit arm state.
type Store struct {
	db       *sql.DB
	path     string
	armMu    sync.Mutex
	armLock  *flock.Flock
	lockPath string
}

// Open initializes or connects to the therapy database and applies the
// schema.
func Open(cfg *config.Config) (*Store, error) {
	return OpenPath(cfg, cfg.DatabasePath())
}

// OpenPath opens a database at an explicit location, used when a request
// carries a db_path override.
func OpenPath(cfg *config.Config, dbPath string) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	lockPath := cfg.ArmLockPath()
	store := &Store{
		db:       db,
		path:     dbPath,
		armLock:  flock.New(lockPath),
		lockPath: lockPath,
	}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

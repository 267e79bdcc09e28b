package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"fitterm/internal/client"
)

const (
	driverName = "sqlite3"

	// clientsKey is the single key the full client list lives under.
	clientsKey = "clients"
)

// Store wraps a local SQLite database used as a synchronous key-value store.
// The entire client list is serialized as one JSON array blob under a fixed
// key; every save overwrites the previous snapshot.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open bootstraps the store at the default path.
func Open(ctx context.Context, logger *zap.Logger) (*Store, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(ctx, path, logger)
}

// OpenPath bootstraps the store at an explicit path.
func OpenPath(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	store := &Store{db: db, path: path, logger: logger}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases DB resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func resolveDBPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = os.Getenv("HOME")
		if base == "" {
			if err != nil {
				return "", fmt.Errorf("cannot resolve data dir: %w", err)
			}
			return "", errors.New("cannot resolve data dir")
		}
	}
	dir := filepath.Join(base, "fitterm")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create db dir: %w", err)
	}
	return filepath.Join(dir, "fitterm.db"), nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS kv (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );`
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// LoadClients reads the stored client list. An absent key or a corrupt blob
// both yield an empty list; corruption is logged, never surfaced.
func (s *Store) LoadClients(ctx context.Context) ([]client.Client, error) {
	var blob string
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, clientsKey)
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read clients blob: %w", err)
	}

	var clients []client.Client
	if err := json.Unmarshal([]byte(blob), &clients); err != nil {
		s.logger.Warn("discarding corrupt clients blob", zap.Error(err), zap.String("path", s.path))
		return nil, nil
	}
	return clients, nil
}

// SaveClients overwrites the stored snapshot with the given list.
func (s *Store) SaveClients(ctx context.Context, clients []client.Client) error {
	if clients == nil {
		clients = []client.Client{}
	}
	blob, err := json.Marshal(clients)
	if err != nil {
		return fmt.Errorf("marshal clients: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		clientsKey, string(blob))
	if err != nil {
		return fmt.Errorf("write clients blob: %w", err)
	}
	return nil
}

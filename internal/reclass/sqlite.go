package reclass

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/clearspend-dev/clearspend/internal/identity"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore persists overrides in a local SQLite database so they survive
// process restarts as well as reloads.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the override database at dbPath
// and applies pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening override db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging override db: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating override db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(dbPath string) error {
	// Separate connection so the migration driver does not interfere with the
	// store's own connection.
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening migration connection: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Set(ctx context.Context, key identity.Key, category string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO overrides (identity_key, category) VALUES (?, ?)
		 ON CONFLICT (identity_key) DO UPDATE SET category = excluded.category`,
		string(key), category)
	if err != nil {
		return fmt.Errorf("writing override: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key identity.Key) (string, bool, error) {
	var category string
	err := s.db.QueryRowContext(ctx,
		`SELECT category FROM overrides WHERE identity_key = ?`, string(key)).Scan(&category)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading override: %w", err)
	}
	return category, true, nil
}

func (s *SQLiteStore) All(ctx context.Context) (map[identity.Key]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT identity_key, category FROM overrides`)
	if err != nil {
		return nil, fmt.Errorf("listing overrides: %w", err)
	}
	defer rows.Close()

	out := make(map[identity.Key]string)
	for rows.Next() {
		var key, category string
		if err := rows.Scan(&key, &category); err != nil {
			return nil, fmt.Errorf("scanning override: %w", err)
		}
		out[identity.Key(key)] = category
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating overrides: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key identity.Key) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM overrides WHERE identity_key = ?`, string(key)); err != nil {
		return fmt.Errorf("deleting override: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-seaglass-map/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// each connection to ":memory:" is its own database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS zones (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			longitude REAL NOT NULL,
			latitude REAL NOT NULL,
			category TEXT NOT NULL,
			historical REAL NOT NULL,
			morphology REAL NOT NULL,
			river REAL NOT NULL,
			ocean REAL NOT NULL,
			population REAL NOT NULL,
			name TEXT NOT NULL DEFAULT '{}',
			description TEXT NOT NULL DEFAULT '{}'
		);

		CREATE TABLE IF NOT EXISTS protected_areas (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			longitude REAL NOT NULL,
			latitude REAL NOT NULL,
			radius_km REAL NOT NULL,
			status TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '{}',
			description TEXT NOT NULL DEFAULT '{}'
		);

		CREATE TABLE IF NOT EXISTS river_mouths (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			longitude REAL NOT NULL,
			latitude REAL NOT NULL,
			name TEXT NOT NULL DEFAULT '{}',
			description TEXT NOT NULL DEFAULT '{}'
		);

		CREATE TABLE IF NOT EXISTS spots (
			id TEXT PRIMARY KEY,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_zones_position ON zones(position);
		CREATE INDEX IF NOT EXISTS idx_protected_areas_position ON protected_areas(position);
		CREATE INDEX IF NOT EXISTS idx_river_mouths_position ON river_mouths(position);
		CREATE INDEX IF NOT EXISTS idx_spots_created_at ON spots(created_at);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func encodeText(t models.Text) (string, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("error encoding text: %w", err)
	}
	return string(b), nil
}

func decodeText(s string) (models.Text, error) {
	t := models.Text{}
	if s == "" {
		return t, nil
	}
	if err := json.Unmarshal([]byte(s), &t); err != nil {
		return nil, fmt.Errorf("error decoding text: %w", err)
	}
	return t, nil
}

// prune deletes every row of table whose id is not in keep.
func (s *SQLiteDB) prune(ctx context.Context, table string, keep []string) (int64, error) {
	query := "DELETE FROM " + table
	args := make([]any, len(keep))
	if len(keep) > 0 {
		placeholders := make([]string, len(keep))
		for i, id := range keep {
			placeholders[i] = "?"
			args[i] = id
		}
		query += " WHERE id NOT IN (" + strings.Join(placeholders, ",") + ")"
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error pruning %s: %w", table, err)
	}
	return res.RowsAffected()
}

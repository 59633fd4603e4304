package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anime-shed/palette-inspector-go/pkg/models"
)

// createdAtLayout is fixed width so lexical order matches time order
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore persists palettes in a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path and
// applies pending migrations.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", pragma, err)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(entries)

	for _, name := range entries {
		var count int
		if err := db.QueryRow("SELECT COUNT(1) FROM schema_migrations WHERE name = ?", name).Scan(&count); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("start migration tx %s: %w", name, err)
		}
		if _, err := tx.Exec(string(body)); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations(name, applied_at) VALUES (?, ?)",
			name,
			time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, palette *models.PaletteResponse) error {
	payload, err := json.Marshal(palette)
	if err != nil {
		return fmt.Errorf("encode palette: %w", err)
	}
	hexes, err := json.Marshal(palette.Summary().Hexes)
	if err != nil {
		return fmt.Errorf("encode hexes: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO palettes(id, source, created_at, hexes, payload) VALUES (?, ?, ?, ?, ?)`,
		palette.ID,
		palette.Source,
		palette.CreatedAt.UTC().Format(createdAtLayout),
		string(hexes),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("save palette %s: %w", palette.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.PaletteResponse, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM palettes WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaletteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load palette %s: %w", id, err)
	}

	var palette models.PaletteResponse
	if err := json.Unmarshal([]byte(payload), &palette); err != nil {
		return nil, fmt.Errorf("decode palette %s: %w", id, err)
	}
	return &palette, nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]models.PaletteSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, source, created_at, hexes FROM palettes ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list palettes: %w", err)
	}
	defer rows.Close()

	out := []models.PaletteSummary{}
	for rows.Next() {
		var (
			sum       models.PaletteSummary
			createdAt string
			hexes     string
		)
		if err := rows.Scan(&sum.ID, &sum.Source, &createdAt, &hexes); err != nil {
			return nil, fmt.Errorf("scan palette: %w", err)
		}
		if sum.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", sum.ID, err)
		}
		if err := json.Unmarshal([]byte(hexes), &sum.Hexes); err != nil {
			return nil, fmt.Errorf("decode hexes for %s: %w", sum.ID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Package storage provides SQLite-based persistence for saved lineups.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/typecricket/internal/match"
)

// ErrLineupNotFound is returned when no lineup has the requested name.
var ErrLineupNotFound = errors.New("lineup not found")

// Store manages the SQLite database connection for lineup persistence.
type Store struct {
	db *sql.DB
}

// Lineup is a named batting order.
type Lineup struct {
	ID        string
	Name      string
	Players   [match.LineupSize]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS lineups (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			players TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveLineup stores players under name, replacing any lineup already saved
// with that name. Short lists are padded from the default roster.
func (s *Store) SaveLineup(name string, players []string) (*Lineup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("storage: %w: name is empty", match.ErrInvalidLineup)
	}
	if err := match.ValidateLineup(players); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	lineup := match.BuildLineup(players)
	encoded, err := json.Marshal(lineup[:])
	if err != nil {
		return nil, fmt.Errorf("storage: cannot encode players: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO lineups (id, name, players) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		     players = excluded.players,
		     updated_at = CURRENT_TIMESTAMP`,
		uuid.NewString(), name, string(encoded),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot save lineup: %w", err)
	}

	return s.Lineup(name)
}

// Lineup retrieves a lineup by name.
func (s *Store) Lineup(name string) (*Lineup, error) {
	row := s.db.QueryRow(
		`SELECT id, name, players, created_at, updated_at
		 FROM lineups
		 WHERE name = ?`,
		strings.TrimSpace(name),
	)

	l, err := scanLineup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: %q: %w", name, ErrLineupNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query lineup: %w", err)
	}
	return l, nil
}

// Lineups retrieves every saved lineup ordered by name.
func (s *Store) Lineups() ([]Lineup, error) {
	rows, err := s.db.Query(
		`SELECT id, name, players, created_at, updated_at
		 FROM lineups
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query lineups: %w", err)
	}
	defer rows.Close()

	var lineups []Lineup
	for rows.Next() {
		l, err := scanLineup(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		lineups = append(lineups, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return lineups, nil
}

// DeleteLineup removes the lineup with the given name.
func (s *Store) DeleteLineup(name string) error {
	res, err := s.db.Exec("DELETE FROM lineups WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("storage: cannot delete lineup: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("storage: %q: %w", name, ErrLineupNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLineup(row scanner) (*Lineup, error) {
	var (
		l                    Lineup
		players              string
		createdAt, updatedAt any
	)
	if err := row.Scan(&l.ID, &l.Name, &players, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal([]byte(players), &names); err != nil {
		return nil, fmt.Errorf("decode players of %q: %w", l.Name, err)
	}
	l.Players = match.BuildLineup(names)
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTime(updatedAt)
	return &l, nil
}

// parseTime handles both time.Time and string DATETIME values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

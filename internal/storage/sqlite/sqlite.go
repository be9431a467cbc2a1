// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process, nothing to install beyond the driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/personas-api/internal/config"
	"github.com/aanand-mishra/personas-api/internal/storage"
	"github.com/aanand-mishra/personas-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// Db is a connection pool and is safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.StoragePath, creates the persona
// table if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Schema:
	//   id     — integer primary key; AUTOINCREMENT keeps ids of deleted
	//            rows from ever being handed out again
	//   nombre — the person's name
	//   delito — the offense description
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS persona (
			id     INTEGER      PRIMARY KEY AUTOINCREMENT,
			nombre VARCHAR(100) NOT NULL,
			delito VARCHAR(250) NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// CreatePersona inserts a new row into the persona table.
//
// Values are always bound through ? placeholders, never concatenated into
// the SQL text.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) CreatePersona(ctx context.Context, p types.Persona) (types.Persona, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO persona (nombre, delito) VALUES (?, ?)",
	)
	if err != nil {
		return types.Persona{}, storage.Wrap("CreatePersona", fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, p.Name, p.Offense)
	if err != nil {
		return types.Persona{}, storage.Wrap("CreatePersona", fmt.Errorf("exec: %w", err))
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Persona{}, storage.Wrap("CreatePersona", fmt.Errorf("last insert id: %w", err))
	}

	p.ID = lastID
	return p, nil
}

// GetPersonaByID fetches exactly one row matched by primary key.
func (s *SQLite) GetPersonaByID(ctx context.Context, id int64) (types.Persona, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, nombre, delito FROM persona WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Persona{}, storage.Wrap("GetPersonaByID", fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	var p types.Persona

	// QueryRow never returns nil; a missing row surfaces from Scan as
	// sql.ErrNoRows.
	err = stmt.QueryRowContext(ctx, id).Scan(&p.ID, &p.Name, &p.Offense)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Persona{}, fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
		}
		return types.Persona{}, storage.Wrap("GetPersonaByID", fmt.Errorf("scan: %w", err))
	}

	return p, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetPersonas returns all rows as a slice, ordered by id.
//
// Always defer rows.Close() to release the connection, and check
// rows.Err() after the loop: iteration errors are reported there, not
// by Scan.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetPersonas(ctx context.Context) ([]types.Persona, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, nombre, delito FROM persona ORDER BY id",
	)
	if err != nil {
		return nil, storage.Wrap("GetPersonas", fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, storage.Wrap("GetPersonas", fmt.Errorf("query: %w", err))
	}
	defer rows.Close()

	personas := make([]types.Persona, 0)

	for rows.Next() {
		var p types.Persona
		if err := rows.Scan(&p.ID, &p.Name, &p.Offense); err != nil {
			return nil, storage.Wrap("GetPersonas", fmt.Errorf("scan row: %w", err))
		}
		personas = append(personas, p)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("GetPersonas", fmt.Errorf("rows iteration: %w", err))
	}

	return personas, nil
}

// UpdatePersona writes name and offense for the row identified by p.ID.
func (s *SQLite) UpdatePersona(ctx context.Context, p types.Persona) error {
	stmt, err := s.Db.PrepareContext(ctx,
		"UPDATE persona SET nombre = ?, delito = ? WHERE id = ?",
	)
	if err != nil {
		return storage.Wrap("UpdatePersona", fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	// Argument order matches the ? order: nombre, delito, id.
	result, err := stmt.ExecContext(ctx, p.Name, p.Offense, p.ID)
	if err != nil {
		return storage.Wrap("UpdatePersona", fmt.Errorf("exec: %w", err))
	}

	return affectedOne(result, "UpdatePersona", p.ID)
}

// DeletePersonaByID removes a row by primary key.
func (s *SQLite) DeletePersonaByID(ctx context.Context, id int64) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM persona WHERE id = ?")
	if err != nil {
		return storage.Wrap("DeletePersonaByID", fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return storage.Wrap("DeletePersonaByID", fmt.Errorf("exec: %w", err))
	}

	return affectedOne(result, "DeletePersonaByID", id)
}

// affectedOne turns "zero rows touched" into storage.ErrNotFound.
func affectedOne(result sql.Result, op string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("rows affected: %w", err))
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

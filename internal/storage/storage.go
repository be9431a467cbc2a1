// Package storage defines the Storage interface, the contract every
// database backend satisfies.
//
// Handlers depend only on this interface, so the SQLite (database/sql)
// backend and the gorm backend are interchangeable: main.go picks one
// from config and nothing else changes.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/personas-api/internal/types"
)

// ErrNotFound is returned when no persona has the requested id.
var ErrNotFound = errors.New("persona not found")

// Error is an unexpected backing-store failure (connection lost, disk
// full, constraint violation). Handlers surface it as a 500.
type Error struct {
	Op  string // the storage method that failed, e.g. "CreatePersona"
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err and a *Error otherwise.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Storage is the database contract.
type Storage interface {
	// CreatePersona inserts p (whose ID must be zero) and returns the
	// stored record carrying its freshly assigned ID.
	CreatePersona(ctx context.Context, p types.Persona) (types.Persona, error)

	// GetPersonaByID fetches a single persona by primary key.
	// Returns ErrNotFound if there is no such row.
	GetPersonaByID(ctx context.Context, id int64) (types.Persona, error)

	// GetPersonas returns every persona, ordered by id.
	// Returns an empty slice (not nil) if there are none.
	GetPersonas(ctx context.Context) ([]types.Persona, error)

	// UpdatePersona overwrites name and offense of the row identified by
	// p.ID. Returns ErrNotFound if the row does not exist.
	UpdatePersona(ctx context.Context, p types.Persona) error

	// DeletePersonaByID removes a persona permanently.
	// Returns ErrNotFound if the row does not exist.
	DeletePersonaByID(ctx context.Context, id int64) error

	// Close releases the underlying connection pool.
	Close() error
}

// Package types holds the shared data structures (models) used across
// the application. Handlers, storage and validation all import types
// without depending on each other.
package types

// Persona is a person record together with the offense it is on file for.
//
// Persona has no json tags. The wire shape ({"id", "nombre", "delito"})
// is produced by validation.Encode, and each storage backend maps its
// own row shape.
type Persona struct {
	// ID is assigned by the store on insert and never changes afterwards.
	// Zero means "not saved yet".
	ID int64

	// Name is the person's name (wire key "nombre"), at least 3 characters.
	Name string

	// Offense describes the offense (wire key "delito"), at least 10 characters.
	Offense string
}

// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
package response

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Fixed human-readable messages returned under the "mensaje" key.
const (
	MsgNotFound = "Persona no encontrada"
	MsgCreated  = "Persona agregada exitosamente"
	MsgUpdated  = "Persona actualizada exitosamente"
	MsgDeleted  = "Persona eliminada exitosamente"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the envelope returned for unexpected (500-class) errors:
//
//	{ "status": "error", "error": "storage: GetPersonas: ..." }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error"`  // human-readable error detail
}

// Status string constants.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Message is the envelope for outcome messages:
//
//	{ "mensaje": "Persona agregada exitosamente" }
type Message struct {
	Mensaje string `json:"mensaje"`
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteMessage writes {"mensaje": msg} with the given status.
func WriteMessage(w http.ResponseWriter, status int, msg string) error {
	return WriteJSON(w, status, Message{Mensaje: msg})
}

// GeneralError wraps any Go error into our standard Response shape.
// Use this for unexpected errors (storage failures and the like).
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// FieldErrors is the 400 body for a failed validation: each offending
// field mapped to its messages.
//
//	{ "nombre": ["Shorter than minimum length 3."], "delito": ["Missing data for required field."] }
type FieldErrors map[string][]string

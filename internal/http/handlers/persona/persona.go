// Package persona contains all HTTP handlers for the Persona resource.
//
// Each exported handler is a factory: it receives its dependencies once
// at startup and returns the http.HandlerFunc that runs on every request.
//
//	router.HandleFunc("POST /personas", persona.New(storage))
//
// Route table (see Register):
//
//	GET    /personas        → list all personas
//	GET    /personas/{id}   → get one persona
//	POST   /personas        → create a persona
//	PUT    /personas/{id}   → partially update a persona
//	DELETE /personas/{id}   → delete a persona
package persona

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/personas-api/internal/storage"
	"github.com/aanand-mishra/personas-api/internal/utils/response"
	"github.com/aanand-mishra/personas-api/internal/validation"
)

// Register mounts every persona route on router.
func Register(router *http.ServeMux, s storage.Storage) {
	router.HandleFunc("GET /personas", GetList(s))
	router.HandleFunc("GET /personas/{id}", GetByID(s))
	router.HandleFunc("POST /personas", New(s))
	router.HandleFunc("PUT /personas/{id}", Update(s))
	router.HandleFunc("DELETE /personas/{id}", Delete(s))
}

// pathID reads the {id} path segment. Only plain non-negative decimal
// integers are ids; anything else matches no persona.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 63)
	if err != nil {
		return 0, false
	}
	return int64(id), true
}

func notFound(w http.ResponseWriter) {
	response.WriteMessage(w, http.StatusNotFound, response.MsgNotFound)
}

// writeStorageError maps storage.ErrNotFound to 404 and anything else to 500.
func writeStorageError(w http.ResponseWriter, err error, msg string, attrs ...any) {
	if errors.Is(err, storage.ErrNotFound) {
		notFound(w)
		return
	}
	slog.Error(msg, append(attrs, slog.String("error", err.Error()))...)
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}

// writeDecodeError answers a failed payload decode: 400 with the field
// map for validation failures, 500 for anything else (e.g. a broken body
// stream).
func writeDecodeError(w http.ResponseWriter, err error) {
	var verr validation.ValidationError
	if errors.As(err, &verr) {
		response.WriteJSON(w, http.StatusBadRequest, response.FieldErrors(verr))
		return
	}
	slog.Error("error reading request body", slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /personas
//
// Success response (200 OK), [] when there are no personas:
//
//	[ { "id": 1, "nombre": "Alice", "delito": "Grand theft auto" } ]
//
// ─────────────────────────────────────────────────────────────────────────────
func GetList(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all personas")

		personas, err := s.GetPersonas(r.Context())
		if err != nil {
			writeStorageError(w, err, "error getting personas")
			return
		}

		response.WriteJSON(w, http.StatusOK, validation.EncodeMany(personas))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /personas/{id}
//
// Success response (200 OK):
//
//	{ "id": 1, "nombre": "Alice", "delito": "Grand theft auto" }
//
// Error responses:
//
//	404 Not Found  — { "mensaje": "Persona no encontrada" }
//	500 Internal   — storage failure
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting a persona", slog.String("id", r.PathValue("id")))

		id, ok := pathID(r)
		if !ok {
			notFound(w)
			return
		}

		p, err := s.GetPersonaByID(r.Context(), id)
		if err != nil {
			writeStorageError(w, err, "error getting persona", slog.Int64("id", id))
			return
		}

		response.WriteJSON(w, http.StatusOK, validation.Encode(p))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /personas
//
// Request body (JSON):
//
//	{ "nombre": "Alice", "delito": "Grand theft auto" }
//
// Success response (201 Created):
//
//	{ "mensaje": "Persona agregada exitosamente" }
//
// Error responses:
//
//	400 Bad Request  — field → messages map, e.g. { "nombre": ["Shorter than minimum length 3."] }
//	500 Internal     — storage failure
//
// ─────────────────────────────────────────────────────────────────────────────
func New(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a persona")

		payload, err := validation.ParsePayload(r.Body)
		if err != nil {
			writeDecodeError(w, err)
			return
		}

		p, err := validation.DecodeForCreate(payload)
		if err != nil {
			writeDecodeError(w, err)
			return
		}

		created, err := s.CreatePersona(r.Context(), p)
		if err != nil {
			writeStorageError(w, err, "error creating persona")
			return
		}

		slog.Info("persona created", slog.Int64("id", created.ID))
		response.WriteMessage(w, http.StatusCreated, response.MsgCreated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /personas/{id}
// Partial update: only the fields present in the body are validated and
// replaced. Unknown keys (and "id") are ignored.
//
// Success response (200 OK):
//
//	{ "mensaje": "Persona actualizada exitosamente" }
//
// Error responses:
//
//	404 Not Found    — no such persona (checked before the body is read)
//	400 Bad Request  — field → messages map; the stored record is unchanged
//	500 Internal     — storage failure
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("updating a persona", slog.String("id", r.PathValue("id")))

		id, ok := pathID(r)
		if !ok {
			notFound(w)
			return
		}

		existing, err := s.GetPersonaByID(r.Context(), id)
		if err != nil {
			writeStorageError(w, err, "error getting persona", slog.Int64("id", id))
			return
		}

		payload, err := validation.ParsePayload(r.Body)
		if err != nil {
			writeDecodeError(w, err)
			return
		}

		merged, err := validation.DecodeForUpdate(payload, existing)
		if err != nil {
			writeDecodeError(w, err)
			return
		}

		// Last write wins if another request updated this row meanwhile.
		if err := s.UpdatePersona(r.Context(), merged); err != nil {
			writeStorageError(w, err, "error updating persona", slog.Int64("id", id))
			return
		}

		slog.Info("persona updated", slog.Int64("id", id))
		response.WriteMessage(w, http.StatusOK, response.MsgUpdated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /personas/{id}
// Permanently removes a persona.
//
// Success response (200 OK):
//
//	{ "mensaje": "Persona eliminada exitosamente" }
//
// Error responses:
//
//	404 Not Found  — no such persona
//	500 Internal   — storage failure
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("deleting a persona", slog.String("id", r.PathValue("id")))

		id, ok := pathID(r)
		if !ok {
			notFound(w)
			return
		}

		if _, err := s.GetPersonaByID(r.Context(), id); err != nil {
			writeStorageError(w, err, "error getting persona", slog.Int64("id", id))
			return
		}

		if err := s.DeletePersonaByID(r.Context(), id); err != nil {
			writeStorageError(w, err, "error deleting persona", slog.Int64("id", id))
			return
		}

		slog.Info("persona deleted", slog.Int64("id", id))
		response.WriteMessage(w, http.StatusOK, response.MsgDeleted)
	}
}

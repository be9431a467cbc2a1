package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, http.StatusCreated, map[string]int64{"id": 3})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":3}`, rec.Body.String())
}

func TestWriteMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteMessage(rec, http.StatusNotFound, MsgNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"mensaje":"Persona no encontrada"}`, rec.Body.String())
}

func TestGeneralError(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusInternalServerError, GeneralError(errors.New("disk on fire"))))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"disk on fire"}`, rec.Body.String())
}

func TestFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusBadRequest, FieldErrors{
		"nombre": {"Shorter than minimum length 3."},
	}))

	assert.JSONEq(t, `{"nombre":["Shorter than minimum length 3."]}`, rec.Body.String())
}

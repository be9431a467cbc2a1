// Package storagetest holds the behaviour every storage.Storage backend
// must share. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/personas-api/internal/storage"
	"github.com/aanand-mishra/personas-api/internal/types"
)

// Factory returns an empty store. It should register its own cleanup.
type Factory func(t *testing.T) storage.Storage

// Run executes the shared suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name  string
		check func(t *testing.T, s storage.Storage)
	}{
		{name: "empty store lists nothing", check: testEmptyList},
		{name: "create assigns distinct ids", check: testCreateAssignsIDs},
		{name: "get returns what was created", check: testCreateThenGet},
		{name: "get unknown id is not found", check: testGetNotFound},
		{name: "list returns rows in id order", check: testListOrder},
		{name: "update replaces fields", check: testUpdate},
		{name: "update unknown id is not found", check: testUpdateNotFound},
		{name: "delete removes the row", check: testDelete},
		{name: "delete unknown id is not found", check: testDeleteNotFound},
		{name: "ids are not reused after delete", check: testIDsNotReused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, newStore(t))
		})
	}
}

func create(t *testing.T, s storage.Storage, name, offense string) types.Persona {
	t.Helper()
	p, err := s.CreatePersona(context.Background(), types.Persona{Name: name, Offense: offense})
	require.NoError(t, err)
	return p
}

func testEmptyList(t *testing.T, s storage.Storage) {
	got, err := s.GetPersonas(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func testCreateAssignsIDs(t *testing.T, s storage.Storage) {
	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		p := create(t, s, "Alice", "Grand theft auto")
		assert.Positive(t, p.ID)
		assert.False(t, seen[p.ID], "id %d assigned twice", p.ID)
		seen[p.ID] = true
	}
}

func testCreateThenGet(t *testing.T, s storage.Storage) {
	created := create(t, s, "Alice", "Grand theft auto")

	got, err := s.GetPersonaByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Persona{ID: created.ID, Name: "Alice", Offense: "Grand theft auto"}, got)
}

func testGetNotFound(t *testing.T, s storage.Storage) {
	_, err := s.GetPersonaByID(context.Background(), 404)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func testListOrder(t *testing.T, s storage.Storage) {
	a := create(t, s, "Alice", "Grand theft auto")
	b := create(t, s, "Bob", "Tax evasion, twice")
	c := create(t, s, "Carol", "Jaywalking downtown")

	got, err := s.GetPersonas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.Persona{a, b, c}, got)
}

func testUpdate(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p := create(t, s, "Alice", "Grand theft auto")
	other := create(t, s, "Bob", "Tax evasion, twice")

	p.Name = "Alicia"
	p.Offense = "Grand theft auto, again"
	require.NoError(t, s.UpdatePersona(ctx, p))

	got, err := s.GetPersonaByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	untouched, err := s.GetPersonaByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other, untouched)
}

func testUpdateNotFound(t *testing.T, s storage.Storage) {
	err := s.UpdatePersona(context.Background(), types.Persona{ID: 404, Name: "Ghost", Offense: "Haunting the hallway"})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func testDelete(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p := create(t, s, "Alice", "Grand theft auto")

	require.NoError(t, s.DeletePersonaByID(ctx, p.ID))

	_, err := s.GetPersonaByID(ctx, p.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	all, err := s.GetPersonas(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testDeleteNotFound(t *testing.T, s storage.Storage) {
	err := s.DeletePersonaByID(context.Background(), 404)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func testIDsNotReused(t *testing.T, s storage.Storage) {
	first := create(t, s, "Alice", "Grand theft auto")
	require.NoError(t, s.DeletePersonaByID(context.Background(), first.ID))

	second := create(t, s, "Bob", "Tax evasion, twice")
	assert.Greater(t, second.ID, first.ID)
}

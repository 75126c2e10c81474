package gormstore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmaint/backend/internal/database"
	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/models"
)

// newTestStore connects to TEST_DATABASE_URL and returns a store plus a
// fresh collection id whose rows are removed when the test ends.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.Connect(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	collection := "test-" + uuid.NewString()
	t.Cleanup(func() {
		db.Where("collection_id = ?", collection).Delete(&models.StoredPage{})
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(db), collection
}

func TestInsertKeepsStoredPageOnConflict(t *testing.T) {
	store, collection := newTestStore(t)
	ctx := context.Background()
	id := uuid.NewString()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	first, err := store.Insert(ctx, collection, id, created, docstore.Properties{
		"Tarea": docstore.Title("Revisar caldera"),
	})
	require.NoError(t, err)
	assert.Equal(t, id, first.ID)

	again, err := store.Insert(ctx, collection, id, created.Add(time.Hour), docstore.Properties{
		"Tarea": docstore.Title("otra cosa"),
	})
	require.NoError(t, err)
	title, _ := again.Properties.Text("Tarea")
	assert.Equal(t, "Revisar caldera", title)
	assert.True(t, created.Equal(again.CreatedTime))

	pages, err := store.Query(ctx, collection)
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestUpdateMergesProperties(t *testing.T) {
	store, collection := newTestStore(t)
	ctx := context.Background()

	page, err := store.Create(ctx, collection, docstore.Properties{
		"Tarea":  docstore.Title("Revisar extintores"),
		"Estado": docstore.Status("Pendiente"),
		"Coste":  docstore.Number(40),
	})
	require.NoError(t, err)

	updated, err := store.Update(ctx, page.ID, docstore.Properties{
		"Estado": docstore.Status("Completado"),
		"Coste":  {Type: docstore.TypeNumber},
	})
	require.NoError(t, err)

	got, err := store.Retrieve(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Properties, got.Properties)

	title, _ := got.Properties.Text("Tarea")
	assert.Equal(t, "Revisar extintores", title)
	status, _ := got.Properties.SelectName("Estado")
	assert.Equal(t, "Completado", status)
	_, hasCost := got.Properties.Number("Coste")
	assert.False(t, hasCost)
}

func TestMissingPages(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Retrieve(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, docstore.ErrNotFound))

	_, err = store.Update(ctx, uuid.NewString(), docstore.Properties{"Estado": docstore.Status("Completado")})
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/core"
)

func TestMutators_CRUD(t *testing.T) {
	store := NewMockStore()
	svc := core.NewService(core.Config{Store: store})
	ctx := context.Background()

	a := core.NewArticle(core.Metadata{
		core.KeyTitle:  "Draft",
		core.KeyAuthor: "me",
		"author_id":    7,
	})

	// 1. Insert
	done := 0
	require.NoError(t, svc.Insert(ctx, a, func() { done++ }))
	assert.Equal(t, 1, done)
	assert.Equal(t, "1", a.ID, "insert adopts the store identifier")

	sent := store.created[0]
	assert.NotContains(t, sent, "author_id", "only the fixed projection is sent")
	assert.Contains(t, sent, core.KeyPublishedOn)
	assert.Nil(t, sent[core.KeyPublishedOn])

	// 2. Update
	a.Title = "Published"
	a.PublishedOn = "2021-03-04"
	require.NoError(t, svc.Update(ctx, a, func() { done++ }))
	assert.Equal(t, 2, done)
	assert.Equal(t, "Published", store.rows["1"][core.KeyTitle])
	assert.Equal(t, "2021-03-04", store.rows["1"][core.KeyPublishedOn])

	// 3. Delete
	require.NoError(t, svc.Delete(ctx, a, nil))
	assert.Empty(t, store.rows)
}

func TestMutators_RequireIdentifier(t *testing.T) {
	svc := core.NewService(core.Config{Store: NewMockStore()})
	a := core.NewArticle(core.Metadata{core.KeyTitle: "unsaved"})

	called := false
	err := svc.Update(context.Background(), a, func() { called = true })
	assert.ErrorIs(t, err, core.ErrMissingID)

	err = svc.Delete(context.Background(), a, func() { called = true })
	assert.ErrorIs(t, err, core.ErrMissingID)
	assert.False(t, called)
}

func TestMutators_InsertKeepsExistingID(t *testing.T) {
	svc := core.NewService(core.Config{Store: NewMockStore()})
	a := core.NewArticle(core.Metadata{core.KeyID: "custom"})

	require.NoError(t, svc.Insert(context.Background(), a, nil))
	assert.Equal(t, "custom", a.ID)
}

func TestMutators_TransportErrorsPropagate(t *testing.T) {
	store := NewMockStore()
	store.failOn = "create"
	svc := core.NewService(core.Config{Store: store})

	called := false
	err := svc.Insert(context.Background(), core.NewArticle(nil), func() { called = true })
	require.Error(t, err)
	assert.False(t, called)

	err = svc.Update(context.Background(), core.NewArticle(core.Metadata{core.KeyID: "404"}), nil)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestDelete_LeavesCollectionAlone(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()
	for _, title := range []string{"x", "y", "z"} {
		_, err := store.Create(ctx, core.Metadata{core.KeyTitle: title})
		require.NoError(t, err)
	}
	svc := core.NewService(core.Config{Store: store})
	require.NoError(t, svc.FetchAll(ctx, nil))

	before := svc.Collection().All()
	require.Len(t, before, 3)

	require.NoError(t, svc.Delete(ctx, before[1], nil))
	// A second delete of the same record fails remotely; the collection still must not move.
	require.Error(t, svc.Delete(ctx, before[1], nil))

	assert.Equal(t, before, svc.Collection().All())
}

func TestTruncate(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()
	_, err := store.Create(ctx, core.Metadata{core.KeyTitle: "x"})
	require.NoError(t, err)

	svc := core.NewService(core.Config{Store: store})
	require.NoError(t, svc.FetchAll(ctx, nil))

	done := false
	require.NoError(t, svc.Truncate(ctx, func() { done = true }))
	assert.True(t, done)
	assert.Empty(t, store.rows)
	assert.Equal(t, 1, svc.Collection().Len())
}

func TestSpawn(t *testing.T) {
	store := NewMockStore()
	svc := core.NewService(core.Config{Store: store})
	a := core.NewArticle(core.Metadata{core.KeyTitle: "async"})

	finished := make(chan struct{})
	svc.Spawn(context.Background(), "insert", func(ctx context.Context) error {
		return svc.Insert(ctx, a, func() { close(finished) })
	})

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("spawned insert never completed")
	}
	assert.Equal(t, 1, store.createdCount())
}

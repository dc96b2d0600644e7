package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a
// SnapshotStore implementation adheres to the interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := &Snapshot{
			Layer:   "contract",
			Path:    []string{"Move", "Walk"},
			Values:  map[string]any{"speed": 1.5, "grounded": true, "name": "hero", "hits": 3},
			SavedAt: time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, store.Save(ctx, key, snap))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, snap.Layer, loaded.Layer)
		assert.Equal(t, snap.Path, loaded.Path)
		assert.True(t, snap.SavedAt.Equal(loaded.SavedAt))
		assert.Equal(t, 1.5, loaded.Values["speed"])
		assert.Equal(t, true, loaded.Values["grounded"])
		assert.Equal(t, "hero", loaded.Values["name"])
		// JSON backed stores return numbers as float64.
		assert.EqualValues(t, 3, loaded.Values["hits"])
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		loaded.Values["speed"] = 99.0
		loaded.Path[0] = "Mutated"

		again, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 1.5, again.Values["speed"])
		assert.Equal(t, "Move", again.Path[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+key)
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("List", func(t *testing.T) {
		k1, k2 := key+"-1", key+"-2"
		require.NoError(t, store.Save(ctx, k1, &Snapshot{Layer: "a"}))
		require.NoError(t, store.Save(ctx, k2, &Snapshot{Layer: "b"}))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, key))
		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, ErrSnapshotNotFound)

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, keys, key)

		assert.NoError(t, store.Delete(ctx, key), "deleting twice is not an error")
	})
}

package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStorageContract runs a suite of tests to verify that a Storage
// implementation adheres to the defined interface contract.
func RunStorageContract(t *testing.T, st Storage) {
	ctx := context.Background()
	relation := "contract-" + time.Now().Format("20060102150405")

	t.Run("Get Missing", func(t *testing.T) {
		val, ok, err := st.Get(ctx, relation, "never-written")
		require.NoError(t, err, "Get on a missing key should not return error")
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("Delete Missing", func(t *testing.T) {
		existed, err := st.Delete(ctx, relation, "never-written")
		require.NoError(t, err, "Delete on a missing key should not return error")
		assert.False(t, existed)
	})

	t.Run("Put and Get", func(t *testing.T) {
		value := map[string]any{"name": "ada", "score": "42"}
		require.NoError(t, st.Put(ctx, relation, "k1", value))

		got, ok, err := st.Get(ctx, relation, "k1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, value, got)
	})

	t.Run("Put Overwrites", func(t *testing.T) {
		require.NoError(t, st.Put(ctx, relation, "k2", map[string]any{"v": "first"}))
		require.NoError(t, st.Put(ctx, relation, "k2", map[string]any{"v": "second"}))

		got, ok, err := st.Get(ctx, relation, "k2")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "second", got["v"], "last write wins")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, st.Put(ctx, relation, "k3", map[string]any{"v": "x"}))

		existed, err := st.Delete(ctx, relation, "k3")
		require.NoError(t, err)
		assert.True(t, existed)

		_, ok, err := st.Get(ctx, relation, "k3")
		require.NoError(t, err)
		assert.False(t, ok, "Get after Delete should report absent")
	})

	t.Run("Find Unwritten Relation", func(t *testing.T) {
		values, err := st.Find(ctx, relation+"-nowhere", nil)
		require.NoError(t, err, "Find on an unwritten relation should not return error")
		assert.Empty(t, values)
	})

	t.Run("Find All and Filtered", func(t *testing.T) {
		rel := relation + "-find"
		require.NoError(t, st.Put(ctx, rel, "a", map[string]any{"kind": "fruit", "name": "apple"}))
		require.NoError(t, st.Put(ctx, rel, "b", map[string]any{"kind": "fruit", "name": "banana"}))
		require.NoError(t, st.Put(ctx, rel, "c", map[string]any{"kind": "root", "name": "carrot"}))

		all, err := st.Find(ctx, rel, nil)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		fruit, err := st.Find(ctx, rel, map[string]any{"kind": "fruit"})
		require.NoError(t, err)
		require.Len(t, fruit, 2)
		for _, v := range fruit {
			assert.Equal(t, "fruit", v["kind"])
		}

		// Equality against an absent field never matches.
		none, err := st.Find(ctx, rel, map[string]any{"color": "red"})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Relations Are Isolated", func(t *testing.T) {
		r1 := relation + "-iso1"
		r2 := relation + "-iso2"
		require.NoError(t, st.Put(ctx, r1, "shared-key", map[string]any{"v": "r1"}))

		_, ok, err := st.Get(ctx, r2, "shared-key")
		require.NoError(t, err)
		assert.False(t, ok, "a write in one relation must not leak into another")

		values, err := st.Find(ctx, r2, nil)
		require.NoError(t, err)
		assert.Empty(t, values)
	})
}

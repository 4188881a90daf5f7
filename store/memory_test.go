package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeFiresImmediately(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.Append(ctx, "items", map[string]string{"v": "one"}))

	var got []Snapshot
	sub, err := st.Subscribe("items", func(snap Snapshot) {
		got = append(got, snap)
	})
	require.NoError(t, err)
	defer sub.Cancel()

	require.Len(t, got, 1)
	assert.Len(t, got[0], 1)
}

func TestAppendNotifiesSubscribers(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	var got []Snapshot
	sub, err := st.Subscribe("items", func(snap Snapshot) {
		got = append(got, snap)
	})
	require.NoError(t, err)
	defer sub.Cancel()

	require.NoError(t, st.Append(ctx, "items", map[string]string{"v": "one"}))
	require.NoError(t, st.Append(ctx, "items", map[string]string{"v": "two"}))

	require.Len(t, got, 3) // initial empty + one per append
	assert.Len(t, got[0], 0)
	assert.Len(t, got[1], 1)
	assert.Len(t, got[2], 2)
}

func TestCancelStopsDeliveries(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	calls := 0
	sub, err := st.Subscribe("items", func(Snapshot) { calls++ })
	require.NoError(t, err)

	sub.Cancel()
	sub.Cancel() // idempotent

	require.NoError(t, st.Append(ctx, "items", map[string]string{"v": "one"}))
	assert.Equal(t, 1, calls) // only the initial snapshot
}

func TestCancelLeavesOtherSubscribersAlone(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	aCalls, bCalls := 0, 0
	subA, err := st.Subscribe("items", func(Snapshot) { aCalls++ })
	require.NoError(t, err)
	subB, err := st.Subscribe("items", func(Snapshot) { bCalls++ })
	require.NoError(t, err)
	defer subB.Cancel()

	subA.Cancel()
	require.NoError(t, st.Append(ctx, "items", map[string]string{"v": "one"}))

	assert.Equal(t, 1, aCalls)
	assert.Equal(t, 2, bCalls)
}

func TestWriteAllReplacesCollection(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.Append(ctx, "items", map[string]string{"v": "old"}))

	next := Snapshot{"k1": json.RawMessage(`{"v":"new"}`)}
	require.NoError(t, st.WriteAll(ctx, "items", next))

	snap, err := st.ReadAll(ctx, "items")
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.JSONEq(t, `{"v":"new"}`, string(snap["k1"]))
}

func TestAppendKeysAreTimeOrdered(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, st.Append(ctx, "items", map[string]int{"i": i}))
	}

	snap, err := st.ReadAll(ctx, "items")
	require.NoError(t, err)

	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	// sorting the slot keys must recover insertion order
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	for i, key := range keys {
		var rec map[string]int
		require.NoError(t, json.Unmarshal(snap[key], &rec))
		assert.Equal(t, i, rec["i"])
	}
}

func TestReadAllIsACopy(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.Append(ctx, "items", map[string]string{"v": "one"}))

	snap, err := st.ReadAll(ctx, "items")
	require.NoError(t, err)
	for k := range snap {
		delete(snap, k)
	}

	again, err := st.ReadAll(ctx, "items")
	require.NoError(t, err)
	assert.Len(t, again, 1)
}

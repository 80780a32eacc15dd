package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	key := Key{Collection: "sessions", ID: "s-1"}

	require.NoError(t, store.Put(ctx, key, sample{Name: "a", Values: []float64{1, 2}}))

	var got sample
	found, err := store.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Name: "a", Values: []float64{1, 2}}, got)
	assert.Equal(t, 1, store.Puts())
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore()

	var got sample
	found, err := store.Get(context.Background(), Key{Collection: "sessions", ID: "nope"}, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreOverwriteAndDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	key := Key{Collection: "chunks", ID: "s-1", Sub: "eeg"}

	require.NoError(t, store.Put(ctx, key, sample{Name: "first"}))
	require.NoError(t, store.Put(ctx, key, sample{Name: "second"}))

	var got sample
	_, err := store.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Name)

	store.Delete(key)
	found, err := store.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "sessions/s-1", Key{Collection: "sessions", ID: "s-1"}.String())
	assert.Equal(t, "chunks/s-1/ppg", Key{Collection: "chunks", ID: "s-1", Sub: "ppg"}.String())
}

package timeseries

import (
	"context"
	"errors"
	"testing"
	"time"

	"biometric-session-analyzer/src/logger"
	"biometric-session-analyzer/src/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	docs := newRecordingStore()
	store := NewStore(docs, logger.NewNop())
	ctx := context.Background()
	session := newSession("s-1", 120, true)

	key, err := store.Save(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "sessions/s-1", key)
	assert.Len(t, docs.puts, 5)
	assert.Equal(t, "sessions/s-1", docs.puts[0])

	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, session.SessionID, loaded.SessionID)
	assert.Equal(t, session.MeasurementID, loaded.MeasurementID)
	assert.Equal(t, session.Duration, loaded.Duration)
	assert.True(t, session.StartTime.Equal(loaded.StartTime))
	assert.Equal(t, session.EEG, loaded.EEG)
	assert.Equal(t, session.PPG, loaded.PPG)
	assert.Equal(t, session.ACC, loaded.ACC)
	assert.Equal(t, session.FusedMetrics, loaded.FusedMetrics)
	assert.Equal(t, session.Metadata, loaded.Metadata)
}

func TestSaveWithoutFusedWritesOneFewerChunk(t *testing.T) {
	withFused := newRecordingStore()
	withoutFused := newRecordingStore()

	_, err := NewStore(withFused, logger.NewNop()).Save(context.Background(), newSession("a", 30, true))
	require.NoError(t, err)
	_, err = NewStore(withoutFused, logger.NewNop()).Save(context.Background(), newSession("a", 30, false))
	require.NoError(t, err)

	assert.Equal(t, len(withFused.puts)-1, len(withoutFused.puts))

	loaded, err := NewStore(withoutFused, logger.NewNop()).Load(context.Background(), "a")
	require.NoError(t, err)
	assert.Nil(t, loaded.FusedMetrics)
}

func TestSaveOnlyPresentModalities(t *testing.T) {
	docs := newRecordingStore()
	session := newSession("ppg-only", 10, false)
	session.EEG = nil
	session.ACC = nil

	_, err := NewStore(docs, logger.NewNop()).Save(context.Background(), session)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"sessions/ppg-only", "session_chunks/ppg-only/ppg"}, docs.puts)
}

func TestLoadMissingSession(t *testing.T) {
	store := NewStore(newRecordingStore(), logger.NewNop())

	loaded, err := store.Load(context.Background(), "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveRejectsInvalidSession(t *testing.T) {
	docs := newRecordingStore()
	session := newSession("bad", 10, false)
	session.EEG = nil
	session.PPG = nil
	session.ACC = nil

	_, err := NewStore(docs, logger.NewNop()).Save(context.Background(), session)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, docs.puts)
}

func TestSaveChunkFailureSurfacesStorageError(t *testing.T) {
	docs := newRecordingStore()
	docs.failPut["session_chunks/s-2/ppg"] = errThrottled
	store := NewStore(docs, logger.NewNop())

	_, err := store.Save(context.Background(), newSession("s-2", 20, false))
	require.Error(t, err)

	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.True(t, serr.Retryable())
	assert.ErrorIs(t, err, errThrottled)
	assert.Equal(t, "sessions/s-2", docs.puts[0])
}

func TestSaveMetadataFailureWritesNoChunks(t *testing.T) {
	docs := newRecordingStore()
	docs.failPut["sessions/s-3"] = errThrottled

	_, err := NewStore(docs, logger.NewNop()).Save(context.Background(), newSession("s-3", 20, true))

	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, []string{"sessions/s-3"}, docs.puts)
}

func TestLoadFlaggedChunkMissing(t *testing.T) {
	docs := newRecordingStore()
	saved := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	clock := saved
	store := NewStore(docs, logger.NewNop(), WithClock(func() time.Time { return clock }))

	_, err := store.Save(context.Background(), newSession("s-4", 20, true))
	require.NoError(t, err)
	docs.Delete(storage.Key{Collection: ChunksCollection, ID: "s-4", Sub: "acc"})

	clock = saved.Add(time.Hour)
	_, err = store.Load(context.Background(), "s-4")

	var ierr *DataIntegrityError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "acc", ierr.ChunkType)
	assert.False(t, ierr.Retryable())
}

func TestLoadRecentlySavedMissingChunkIsInFlight(t *testing.T) {
	docs := newRecordingStore()
	saved := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	clock := saved
	store := NewStore(docs, logger.NewNop(), WithClock(func() time.Time { return clock }))

	_, err := store.Save(context.Background(), newSession("s-5", 20, false))
	require.NoError(t, err)
	docs.Delete(storage.Key{Collection: ChunksCollection, ID: "s-5", Sub: "eeg"})

	clock = saved.Add(2 * time.Second)
	_, err = store.Load(context.Background(), "s-5")

	var ierr *DataIntegrityError
	require.ErrorAs(t, err, &ierr)
	assert.True(t, ierr.InFlight)
	assert.True(t, ierr.Retryable())
}

func TestLoadStorageError(t *testing.T) {
	docs := newRecordingStore()
	docs.failGet["sessions/s-6"] = errThrottled

	_, err := NewStore(docs, logger.NewNop()).Load(context.Background(), "s-6")

	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.True(t, errors.Is(err, errThrottled))
}

func TestResaveOverwritesChunks(t *testing.T) {
	docs := newRecordingStore()
	store := NewStore(docs, logger.NewNop())
	ctx := context.Background()

	first := newSession("s-7", 10, false)
	_, err := store.Save(ctx, first)
	require.NoError(t, err)

	second := newSession("s-7", 10, false)
	second.MeasurementID = "m-second"
	second.PPG.HeartRate[0] = 120
	_, err = store.Save(ctx, second)
	require.NoError(t, err)

	loaded, err := store.Load(ctx, "s-7")
	require.NoError(t, err)
	assert.Equal(t, "m-second", loaded.MeasurementID)
	assert.Equal(t, 120.0, loaded.PPG.HeartRate[0])
}

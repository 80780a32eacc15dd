package kinesis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"biometric-session-analyzer/src/logger"
	"biometric-session-analyzer/src/storage"
	"biometric-session-analyzer/src/timeseries"
	"biometric-session-analyzer/src/types"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	saved []string
	errs  map[string]error
}

func (f *fakeSaver) Save(ctx context.Context, s *types.ProcessedSessionTimeSeries) (string, error) {
	if err := f.errs[s.SessionID]; err != nil {
		return "", err
	}
	f.saved = append(f.saved, s.SessionID)
	return "sessions/" + s.SessionID, nil
}

type fakePublisher struct {
	payloads [][]byte
}

func (f *fakePublisher) PostMessage(ctx context.Context, payload []byte) (int, error) {
	f.payloads = append(f.payloads, payload)
	return 1, nil
}

func accSession(id string) *types.ProcessedSessionTimeSeries {
	start := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	values := []float64{0.1, 0.4, 0.2}
	return &types.ProcessedSessionTimeSeries{
		SessionID:     id,
		MeasurementID: "m-" + id,
		StartTime:     start,
		EndTime:       start.Add(3 * time.Second),
		Duration:      3,
		ACC: &types.ACCTimeSeries{
			Timestamps:        []int64{start.UnixMilli(), start.UnixMilli() + 1000, start.UnixMilli() + 2000},
			X:                 values,
			Y:                 values,
			Z:                 values,
			Magnitude:         values,
			ActivityLevel:     values,
			MovementIntensity: values,
		},
		Metadata: types.SessionMetadata{
			SamplingRates:     types.SamplingRates{ACC: 1},
			ProcessingVersion: "2.1.0",
			QualityScore:      80,
		},
	}
}

func record(t *testing.T, v interface{}) events.KinesisEventRecord {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return events.KinesisEventRecord{EventID: "shard-1:seq", Kinesis: events.KinesisRecord{Data: data}}
}

func TestHandleSavesAndPublishes(t *testing.T) {
	saver := &fakeSaver{}
	publisher := &fakePublisher{}
	handler := NewHandler(saver, publisher, logger.NewNop())

	event := events.KinesisEvent{Records: []events.KinesisEventRecord{
		record(t, accSession("s-1")),
		{EventID: "broken", Kinesis: events.KinesisRecord{Data: []byte("not json")}},
		record(t, accSession("s-2")),
	}}

	require.NoError(t, handler.Handle(context.Background(), event))
	assert.Equal(t, []string{"s-1", "s-2"}, saver.saved)
	require.Len(t, publisher.payloads, 2)

	var msg SessionSavedMessage
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
	assert.Equal(t, SessionSavedMessage{Type: "session_saved", SessionID: "s-1", SessionKey: "sessions/s-1"}, msg)
}

func TestHandleSkipsInvalidSessions(t *testing.T) {
	saver := &fakeSaver{errs: map[string]error{
		"bad": &timeseries.ValidationError{SessionID: "bad", Problems: []string{"no modality present"}},
	}}
	handler := NewHandler(saver, nil, logger.NewNop())

	event := events.KinesisEvent{Records: []events.KinesisEventRecord{
		record(t, accSession("bad")),
		record(t, accSession("good")),
	}}

	require.NoError(t, handler.Handle(context.Background(), event))
	assert.Equal(t, []string{"good"}, saver.saved)
}

func TestHandleFailsBatchOnStorageError(t *testing.T) {
	storageErr := &timeseries.StorageError{Op: "put", Key: "sessions/s-1", Err: errors.New("throttled")}
	saver := &fakeSaver{errs: map[string]error{"s-1": storageErr}}
	handler := NewHandler(saver, nil, logger.NewNop())

	err := handler.Handle(context.Background(), events.KinesisEvent{Records: []events.KinesisEventRecord{
		record(t, accSession("s-1")),
		record(t, accSession("s-2")),
	}})
	assert.ErrorIs(t, err, storageErr)
	assert.Empty(t, saver.saved)
}

func TestHandleWithStore(t *testing.T) {
	docs := storage.NewMemoryStore()
	store := timeseries.NewStore(docs, logger.NewNop())
	handler := NewHandler(store, nil, logger.NewNop())

	require.NoError(t, handler.Handle(context.Background(), events.KinesisEvent{Records: []events.KinesisEventRecord{
		record(t, accSession("s-9")),
	}}))

	loaded, err := store.Load(context.Background(), "s-9")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 3, loaded.Duration)
	assert.Equal(t, 2, docs.Puts())
}

func TestDetectEventType(t *testing.T) {
	tests := []struct {
		name  string
		event string
		want  string
	}{
		{"kinesis", `{"Records":[{"eventSource":"aws:kinesis","kinesis":{"data":"e30="}}]}`, EventKinesis},
		{"websocket", `{"requestContext":{"eventType":"CONNECT","routeKey":"$connect","connectionId":"c1"}}`, EventWebsocket},
		{"http", `{"version":"2.0","routeKey":"GET /sessions/{sessionId}","requestContext":{"http":{"method":"GET","path":"/sessions/s-1"}}}`, EventHTTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectEventType(json.RawMessage(tt.event))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectEventType(json.RawMessage(`{"foo":"bar"}`))
	assert.Error(t, err)
}

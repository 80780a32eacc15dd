package main

import (
	"context"
	"encoding/json"
	"testing"

	"biometric-session-analyzer/src/config"
	"biometric-session-analyzer/src/logger"
	"biometric-session-analyzer/src/types"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryApp(t *testing.T) *app {
	t.Helper()
	cfg := config.Default()
	cfg.StorageBackend = config.BackendMemory

	a, err := newApp(cfg, logger.NewNop())
	require.NoError(t, err)
	return a
}

func TestHandleDispatchesHTTP(t *testing.T) {
	a := newMemoryApp(t)

	event := `{"version":"2.0","routeKey":"POST /integrate","requestContext":{"http":{"method":"POST","path":"/integrate"}},
		"body":"{\"eeg\":[{\"name\":\"brainFocus\",\"score\":82}],\"subject\":{\"age\":29,\"gender\":\"other\"}}"}`

	out, err := a.handle(context.Background(), json.RawMessage(event))
	require.NoError(t, err)

	resp, ok := out.(events.APIGatewayV2HTTPResponse)
	require.True(t, ok)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Result types.IntegratedResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, types.SourceFallback, body.Result.Metadata.Source)
	assert.Equal(t, 82.0, body.Result.OverallHealthScore)
}

func TestHandleKinesisSkipsUndecodableRecords(t *testing.T) {
	a := newMemoryApp(t)

	event := `{"Records":[{"eventSource":"aws:kinesis","eventID":"e1","kinesis":{"data":"bm90IGpzb24="}}]}`
	_, err := a.handle(context.Background(), json.RawMessage(event))
	assert.NoError(t, err)
}

func TestHandleUnknownEvent(t *testing.T) {
	a := newMemoryApp(t)

	_, err := a.handle(context.Background(), json.RawMessage(`{"detail-type":"Scheduled Event"}`))
	assert.Error(t, err)
}

func TestNewCompleterSelection(t *testing.T) {
	cfg := config.Default()
	log := logger.NewNop()

	c, err := newCompleter(cfg, nil, log)
	require.NoError(t, err)
	assert.Nil(t, c)

	cfg.InferenceProvider = config.ProviderOpenAI
	c, err = newCompleter(cfg, nil, log)
	require.NoError(t, err)
	assert.Nil(t, c, "openai without a key falls back")

	cfg.OpenAIAPIKey = "sk-test"
	c, err = newCompleter(cfg, nil, log)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

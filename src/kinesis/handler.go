package kinesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"biometric-session-analyzer/src/logger"
	"biometric-session-analyzer/src/timeseries"
	"biometric-session-analyzer/src/types"

	"github.com/aws/aws-lambda-go/events"
)

// SessionSaver persists one processed session.
type SessionSaver interface {
	Save(ctx context.Context, session *types.ProcessedSessionTimeSeries) (string, error)
}

// Publisher pushes a payload to subscribed dashboards.
type Publisher interface {
	PostMessage(ctx context.Context, payload []byte) (int, error)
}

type SessionSavedMessage struct {
	Type       string `json:"type"`
	SessionID  string `json:"sessionId"`
	SessionKey string `json:"sessionKey"`
}

type Handler struct {
	store     SessionSaver
	publisher Publisher
	log       *logger.Logger
}

// NewHandler returns a handler saving every record through store. publisher
// may be nil.
func NewHandler(store SessionSaver, publisher Publisher, log *logger.Logger) *Handler {
	return &Handler{store: store, publisher: publisher, log: log}
}

// Handle saves each record as a processed session. Records that do not decode
// or validate are logged and skipped; a storage error fails the batch so the
// whole batch is redelivered.
func (h *Handler) Handle(ctx context.Context, kinesisEvent events.KinesisEvent) error {
	saved := 0
	for _, record := range kinesisEvent.Records {
		var session types.ProcessedSessionTimeSeries
		if err := json.Unmarshal(record.Kinesis.Data, &session); err != nil {
			h.log.Warn("cannot read kinesis session record", "event_id", record.EventID, "error", err)
			continue
		}

		key, err := h.store.Save(ctx, &session)
		if err != nil {
			var verr *timeseries.ValidationError
			if errors.As(err, &verr) {
				h.log.Warn("skipping invalid session", "event_id", record.EventID, "session_id", session.SessionID, "error", err)
				continue
			}
			return fmt.Errorf("failed to save session %s: %w", session.SessionID, err)
		}
		saved++

		h.log.Info("session saved", "session_id", session.SessionID, "key", key)
		h.publish(ctx, SessionSavedMessage{Type: "session_saved", SessionID: session.SessionID, SessionKey: key})
	}

	h.log.Info("kinesis batch processed", "records", len(kinesisEvent.Records), "saved", saved)
	return nil
}

func (h *Handler) publish(ctx context.Context, msg SessionSavedMessage) {
	if h.publisher == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("error marshaling notification", "error", err)
		return
	}
	if _, err := h.publisher.PostMessage(ctx, payload); err != nil {
		h.log.Warn("failed to notify subscribers", "session_id", msg.SessionID, "error", err)
	}
}

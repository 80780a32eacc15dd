package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"biometric-session-analyzer/src/integration"
	"biometric-session-analyzer/src/logger"
	"biometric-session-analyzer/src/timeseries"
	"biometric-session-analyzer/src/types"

	"github.com/aws/aws-lambda-go/events"
)

type SessionStore interface {
	Save(ctx context.Context, session *types.ProcessedSessionTimeSeries) (string, error)
	Load(ctx context.Context, sessionID string) (*types.ProcessedSessionTimeSeries, error)
	FormatForAnalysis(session *types.ProcessedSessionTimeSeries, subject *types.SubjectProfile) (*types.AnalysisBundle, error)
}

type Integrator interface {
	Integrate(ctx context.Context, req integration.Request) (types.IntegratedResult, error)
}

// Publisher pushes a payload to subscribed dashboards.
type Publisher interface {
	PostMessage(ctx context.Context, payload []byte) (int, error)
}

type IntegrateRequest struct {
	EEG       []types.DimensionScore `json:"eeg"`
	PPG       []types.DimensionScore `json:"ppg"`
	Subject   types.SubjectProfile   `json:"subject"`
	Session   types.SessionMeta      `json:"session"`
	SessionID string                 `json:"sessionId,omitempty"`
}

type IntegrateResponse struct {
	Result  types.IntegratedResult `json:"result"`
	Summary types.SummaryResult    `json:"summary"`
}

type Handler struct {
	store     SessionStore
	engine    Integrator
	publisher Publisher
	log       *logger.Logger
	now       func() time.Time
}

// NewHandler wires the HTTP routes. publisher may be nil.
func NewHandler(store SessionStore, engine Integrator, publisher Publisher, log *logger.Logger) *Handler {
	return &Handler{store: store, engine: engine, publisher: publisher, log: log, now: time.Now}
}

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

func (h *Handler) HandleHTTP(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	switch req.RouteKey {
	case "POST /sessions":
		return h.saveSession(ctx, req)
	case "GET /sessions/{sessionId}":
		return h.getSession(ctx, req.PathParameters["sessionId"])
	case "GET /sessions/{sessionId}/analysis":
		return h.getAnalysis(ctx, req.PathParameters["sessionId"])
	case "POST /integrate":
		return h.integrate(ctx, req)
	default:
		return respond(http.StatusNotFound, map[string]string{"error": "Not Found"}), nil
	}
}

func (h *Handler) saveSession(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	var session types.ProcessedSessionTimeSeries
	if err := decodeBody(req, &session); err != nil {
		return respondError(http.StatusBadRequest, err), nil
	}

	key, err := h.store.Save(ctx, &session)
	if err != nil {
		h.log.Error("failed to save session", "session_id", session.SessionID, "error", err)
		return respondError(statusFor(err), err), nil
	}
	return respond(http.StatusCreated, map[string]string{"sessionKey": key}), nil
}

func (h *Handler) getSession(ctx context.Context, sessionID string) (events.APIGatewayV2HTTPResponse, error) {
	session, resp, ok := h.load(ctx, sessionID)
	if !ok {
		return resp, nil
	}
	return respond(http.StatusOK, session), nil
}

func (h *Handler) getAnalysis(ctx context.Context, sessionID string) (events.APIGatewayV2HTTPResponse, error) {
	session, resp, ok := h.load(ctx, sessionID)
	if !ok {
		return resp, nil
	}

	bundle, err := h.store.FormatForAnalysis(session, nil)
	if err != nil {
		h.log.Error("failed to format session", "session_id", sessionID, "error", err)
		return respondError(http.StatusInternalServerError, err), nil
	}
	return respond(http.StatusOK, bundle), nil
}

func (h *Handler) integrate(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	var body IntegrateRequest
	if err := decodeBody(req, &body); err != nil {
		return respondError(http.StatusBadRequest, err), nil
	}

	engineReq := integration.Request{
		EEG:     body.EEG,
		PPG:     body.PPG,
		Subject: body.Subject,
		Session: body.Session,
	}
	if body.SessionID != "" {
		session, resp, ok := h.load(ctx, body.SessionID)
		if !ok {
			return resp, nil
		}
		bundle, err := h.store.FormatForAnalysis(session, &body.Subject)
		if err != nil {
			return respondError(http.StatusInternalServerError, err), nil
		}
		engineReq.Bundle = bundle
	}

	// The engine reports failures through an error-shaped result, which is
	// still returned to the caller.
	result, err := h.engine.Integrate(ctx, engineReq)
	if err != nil {
		h.log.Warn("integration returned error result", "session_id", body.SessionID, "error", err)
	}

	out := IntegrateResponse{Result: result, Summary: integration.ConvertToSummaryResult(result, h.now())}
	if err == nil {
		h.publish(ctx, out)
	}
	return respond(http.StatusOK, out), nil
}

// load fetches a session or builds the response explaining why it could not.
func (h *Handler) load(ctx context.Context, sessionID string) (*types.ProcessedSessionTimeSeries, events.APIGatewayV2HTTPResponse, bool) {
	if sessionID == "" {
		return nil, respond(http.StatusBadRequest, map[string]string{"error": "sessionId is required"}), false
	}

	session, err := h.store.Load(ctx, sessionID)
	if err != nil {
		h.log.Error("failed to load session", "session_id", sessionID, "error", err)
		return nil, respondError(statusFor(err), err), false
	}
	if session == nil {
		return nil, respond(http.StatusNotFound, map[string]string{"error": "session not found"}), false
	}
	return session, events.APIGatewayV2HTTPResponse{}, true
}

func (h *Handler) publish(ctx context.Context, out IntegrateResponse) {
	if h.publisher == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{"type": "integrated_result", "summary": out.Summary})
	if err != nil {
		h.log.Error("error marshaling notification", "error", err)
		return
	}
	if _, err := h.publisher.PostMessage(ctx, payload); err != nil {
		h.log.Warn("failed to notify subscribers", "error", err)
	}
}

func statusFor(err error) int {
	var verr *timeseries.ValidationError
	var serr *timeseries.StorageError
	var ierr *timeseries.DataIntegrityError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &serr):
		return http.StatusServiceUnavailable
	case errors.As(err, &ierr) && ierr.InFlight:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(req events.APIGatewayV2HTTPRequest, out interface{}) error {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return err
		}
		body = decoded
	}
	return json.Unmarshal(body, out)
}

func respond(status int, v interface{}) events.APIGatewayV2HTTPResponse {
	body, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    corsHeaders,
			Body:       `{"error":"failed to encode response"}`,
		}
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(body),
	}
}

func respondError(status int, err error) events.APIGatewayV2HTTPResponse {
	return respond(status, map[string]string{"error": err.Error()})
}

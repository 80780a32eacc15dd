package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"biometric-session-analyzer/src/inference"
	"biometric-session-analyzer/src/logger"
	"biometric-session-analyzer/src/retry"
	"biometric-session-analyzer/src/types"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const EngineVersion = "1.0.0"

var validate = validator.New()

// Request carries the two sub-analyses. A nil slice means that analysis was
// not produced; Bundle is optional context from a stored session.
type Request struct {
	EEG     []types.DimensionScore
	PPG     []types.DimensionScore
	Subject types.SubjectProfile
	Session types.SessionMeta
	Bundle  *types.AnalysisBundle
}

// Engine merges EEG and PPG sub-analyses into one IntegratedResult. It keeps
// no state between calls.
type Engine struct {
	completer inference.Completer
	log       *logger.Logger
	policy    retry.Policy
	now       func() time.Time
}

type Option func(*Engine)

func WithRetryPolicy(p retry.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an engine calling completer. A nil completer selects the
// deterministic fallback for every call.
func NewEngine(completer inference.Completer, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		completer: completer,
		log:       log,
		policy:    retry.DefaultPolicy(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Integrate always returns a well-formed result. When err is non-nil the
// result is the error-shaped one: zeroed scores, an explanatory summary and
// no recommendations.
func (e *Engine) Integrate(ctx context.Context, req Request) (types.IntegratedResult, error) {
	start := e.now()

	result, source, err := e.integrate(ctx, req)
	if err != nil {
		e.log.Error("integration failed", "error", err, "age", req.Subject.Age)
		result = errorResult(err)
		source = types.SourceError
	}

	result.Metadata = types.ResultMetadata{
		AnalysisID:        uuid.NewString(),
		AnalysisTimestamp: start,
		EngineVersion:     EngineVersion,
		ProcessingTimeMs:  e.now().Sub(start).Milliseconds(),
		DataQuality:       dataQualityTier(req.Bundle),
		Source:            source,
	}
	return result, err
}

func (e *Engine) integrate(ctx context.Context, req Request) (types.IntegratedResult, types.ResultSource, error) {
	if err := validateRequest(req); err != nil {
		return types.IntegratedResult{}, "", err
	}
	if req.EEG == nil && req.PPG == nil {
		return types.IntegratedResult{}, "", ErrInsufficientInput
	}

	eeg := indexDimensions(req.EEG)
	ppg := indexDimensions(req.PPG)
	agg, ok := Aggregate(eeg, ppg)
	if !ok {
		return types.IntegratedResult{}, "", fmt.Errorf("%w: no named dimension present", ErrInsufficientInput)
	}

	var (
		doc    map[string]interface{}
		source types.ResultSource
		err    error
	)
	if e.completer == nil {
		e.log.Warn("no inference service configured, using fallback analysis")
		doc, err = mockDocument(req, agg, eeg, ppg)
		source = types.SourceFallback
	} else {
		doc, err = e.infer(ctx, req, agg)
		source = types.SourceInference
	}
	if err != nil {
		return types.IntegratedResult{}, "", err
	}

	// Dimension maps and metadata come from the caller and the engine, never
	// from the response.
	delete(doc, "eegDimensions")
	delete(doc, "ppgDimensions")
	delete(doc, "metadata")
	applyAggregates(doc, agg)

	sanitized, _ := Sanitize(doc).(map[string]interface{})
	result, err := decodeResult(sanitized)
	if err != nil {
		return types.IntegratedResult{}, "", err
	}
	result.EEGDimensions = eeg
	result.PPGDimensions = ppg
	return result, source, nil
}

func (e *Engine) infer(ctx context.Context, req Request, agg Aggregates) (map[string]interface{}, error) {
	prompt, err := buildPrompt(req, agg)
	if err != nil {
		return nil, err
	}

	policy := e.policy
	policy.OnRetry = func(attempt int, wait time.Duration, err error) {
		e.log.Warn("inference unavailable, retrying",
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"wait", wait.String(),
			"error", err,
		)
	}

	response, err := retry.Do(ctx, policy, inference.IsTransient, func(ctx context.Context) (string, error) {
		return e.completer.Complete(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}
	return parseDocument(response)
}

func validateRequest(req Request) error {
	verr := &ValidationError{}
	collect := func(prefix string, err error) {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				verr.Problems = append(verr.Problems, fmt.Sprintf("%s%s failed %s", prefix, fe.Namespace(), fe.Tag()))
			}
			return
		}
		verr.Problems = append(verr.Problems, prefix+err.Error())
	}

	if err := validate.Struct(req.Subject); err != nil {
		collect("", err)
	}
	for i, d := range req.EEG {
		if err := validate.Struct(d); err != nil {
			collect(fmt.Sprintf("eeg[%d].", i), err)
		}
	}
	for i, d := range req.PPG {
		if err := validate.Struct(d); err != nil {
			collect(fmt.Sprintf("ppg[%d].", i), err)
		}
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

func errorResult(err error) types.IntegratedResult {
	var eegZero, ppgZero float64
	return types.IntegratedResult{
		OverallHealthScore: 0,
		EEGOverallScore:    &eegZero,
		PPGOverallScore:    &ppgZero,
		EEGDimensions:      map[string]types.DimensionScore{},
		PPGDimensions:      map[string]types.DimensionScore{},
		Summary:            "The integrated analysis could not be completed: " + err.Error(),
		KeyFindings:        []string{},
		PersonalizedAnalysis: types.PersonalizedAnalysis{
			Strengths: []string{},
			Concerns:  []string{},
		},
		ImprovementPlan: types.ImprovementPlan{
			Immediate: []types.ActionItem{},
			ShortTerm: []types.ActionItem{},
			LongTerm:  []types.ActionItem{},
		},
		Recommendations: []string{},
	}
}

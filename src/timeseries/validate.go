package timeseries

import (
	"fmt"
	"math"

	"biometric-session-analyzer/src/types"
	"biometric-session-analyzer/src/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the session invariants: at least one modality, duration
// matching the time bounds, and every channel holding duration*rate samples
// with strictly increasing timestamps.
func Validate(session *types.ProcessedSessionTimeSeries) error {
	if session == nil {
		return &ValidationError{Problems: []string{"session is nil"}}
	}

	verr := &ValidationError{SessionID: session.SessionID}

	if err := validate.Struct(session); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				verr.Problems = append(verr.Problems, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			verr.Problems = append(verr.Problems, err.Error())
		}
	}

	if !session.HasModality() {
		verr.Problems = append(verr.Problems, "no modality present (eeg, ppg or acc required)")
	}

	if !session.StartTime.IsZero() && !session.EndTime.IsZero() {
		span, err := utils.GetTimeDiff(session.StartTime, session.EndTime)
		if err != nil {
			verr.Problems = append(verr.Problems, err.Error())
		} else if span != session.Duration {
			verr.Problems = append(verr.Problems, fmt.Sprintf("duration %ds does not match time bounds (%ds)", session.Duration, span))
		}
	}

	if session.Duration > 0 {
		rates := session.Metadata.SamplingRates
		if session.EEG != nil {
			verr.check(types.ChunkEEG, session.Duration, rates.EEG, session.EEG.Timestamps, session.EEG.Channels())
		}
		if session.PPG != nil {
			verr.check(types.ChunkPPG, session.Duration, rates.PPG, session.PPG.Timestamps, session.PPG.Channels())
		}
		if session.ACC != nil {
			verr.check(types.ChunkACC, session.Duration, rates.ACC, session.ACC.Timestamps, session.ACC.Channels())
		}
		if f := session.FusedMetrics; f != nil {
			if rates.Fused > 0 {
				verr.check(types.ChunkFused, session.Duration, rates.Fused, f.Timestamps, f.Channels())
			} else {
				// Without its own rate the fused bundle shares the modalities' N.
				verr.checkLength(types.ChunkFused, sharedLength(session), f.Timestamps, f.Channels())
			}
		}
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

func (e *ValidationError) check(modality types.ChunkType, duration int, rate float64, timestamps []int64, channels []types.Channel) {
	if rate <= 0 {
		e.Problems = append(e.Problems, fmt.Sprintf("%s sampling rate must be positive, got %v", modality, rate))
		return
	}

	e.checkLength(modality, int(math.Round(float64(duration)*rate)), timestamps, channels)
}

func (e *ValidationError) checkLength(modality types.ChunkType, expected int, timestamps []int64, channels []types.Channel) {
	if len(timestamps) != expected {
		e.Problems = append(e.Problems, fmt.Sprintf("%s.timestamps has %d samples, expected %d", modality, len(timestamps), expected))
	} else if ok, idx := utils.StrictlyIncreasing(timestamps); !ok {
		e.Problems = append(e.Problems, fmt.Sprintf("%s.timestamps not strictly increasing at index %d", modality, idx))
	}

	for _, ch := range channels {
		if len(ch.Values) != expected {
			e.Problems = append(e.Problems, fmt.Sprintf("%s.%s has %d samples, expected %d", modality, ch.Name, len(ch.Values), expected))
		}
	}
}

// sharedLength is the sample count of the first present modality.
func sharedLength(s *types.ProcessedSessionTimeSeries) int {
	switch {
	case s.EEG != nil:
		return len(s.EEG.Timestamps)
	case s.PPG != nil:
		return len(s.PPG.Timestamps)
	case s.ACC != nil:
		return len(s.ACC.Timestamps)
	default:
		return 0
	}
}

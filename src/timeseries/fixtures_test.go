package timeseries

import (
	"context"
	"errors"
	"sync"
	"time"

	"biometric-session-analyzer/src/storage"
	"biometric-session-analyzer/src/types"
)

var sessionStart = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

func series(n int, base float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + float64(i%7)
	}
	return out
}

func timestamps(n int, rate float64) []int64 {
	step := int64(1000 / rate)
	out := make([]int64, n)
	for i := range out {
		out[i] = sessionStart.UnixMilli() + int64(i)*step
	}
	return out
}

// newSession builds a valid 1 Hz session with every modality present.
func newSession(id string, duration int, withFused bool) *types.ProcessedSessionTimeSeries {
	n := duration
	s := &types.ProcessedSessionTimeSeries{
		SessionID:     id,
		MeasurementID: "m-" + id,
		StartTime:     sessionStart,
		EndTime:       sessionStart.Add(time.Duration(duration) * time.Second),
		Duration:      duration,
		EEG: &types.EEGTimeSeries{
			Timestamps: timestamps(n, 1),
			BandPowers: types.BandPowers{
				Delta: series(n, 10), Theta: series(n, 8), Alpha: series(n, 12), Beta: series(n, 6), Gamma: series(n, 2),
			},
			Indices: types.EEGIndices{
				FocusIndex: series(n, 60), RelaxationIndex: series(n, 50), StressIndex: series(n, 30),
				HemisphericBalance: series(n, 0), CognitiveLoad: series(n, 40), EmotionalStability: series(n, 70),
			},
			SignalQuality: series(n, 90),
		},
		PPG: &types.PPGTimeSeries{
			Timestamps: timestamps(n, 1),
			HeartRate:  series(n, 68),
			SpO2:       series(n, 96),
			HRVTimeDomain: types.HRVTimeDomain{
				RMSSD: series(n, 35), SDNN: series(n, 45), PNN50: series(n, 12),
			},
			HRVFrequencyDomain: types.HRVFrequencyDomain{
				LF: series(n, 700), HF: series(n, 500), LFHFRatio: series(n, 1),
			},
			StressIndex:   series(n, 40),
			SignalQuality: series(n, 88),
		},
		ACC: &types.ACCTimeSeries{
			Timestamps: timestamps(n, 1),
			X:          series(n, 0), Y: series(n, 0), Z: series(n, 9),
			Magnitude: series(n, 9), ActivityLevel: series(n, 1), MovementIntensity: series(n, 0),
		},
		Metadata: types.SessionMetadata{
			SamplingRates:     types.SamplingRates{EEG: 1, PPG: 1, ACC: 1, Fused: 1},
			ProcessingVersion: "2.1.0",
			QualityScore:      87,
		},
	}
	if withFused {
		s.FusedMetrics = &types.FusedMetrics{
			Timestamps:      timestamps(n, 1),
			OverallStress:   series(n, 35),
			CognitiveStress: series(n, 30),
			PhysicalStress:  series(n, 20),
			FatigueLevel:    series(n, 25),
			AlertnessLevel:  series(n, 70),
			WellbeingScore:  series(n, 75),
		}
	}
	return s
}

// recordingStore wraps a MemoryStore, counting puts and failing selected keys.
type recordingStore struct {
	*storage.MemoryStore

	mu      sync.Mutex
	puts    []string
	failPut map[string]error
	failGet map[string]error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		MemoryStore: storage.NewMemoryStore(),
		failPut:     map[string]error{},
		failGet:     map[string]error{},
	}
}

func (r *recordingStore) Put(ctx context.Context, key storage.Key, doc interface{}) error {
	r.mu.Lock()
	r.puts = append(r.puts, key.String())
	err := r.failPut[key.String()]
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.MemoryStore.Put(ctx, key, doc)
}

func (r *recordingStore) Get(ctx context.Context, key storage.Key, out interface{}) (bool, error) {
	r.mu.Lock()
	err := r.failGet[key.String()]
	r.mu.Unlock()
	if err != nil {
		return false, err
	}
	return r.MemoryStore.Get(ctx, key, out)
}

var errThrottled = errors.New("throttled")

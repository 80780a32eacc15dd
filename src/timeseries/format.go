package timeseries

import (
	"fmt"
	"slices"

	"biometric-session-analyzer/src/types"
	"biometric-session-analyzer/src/utils"
)

// Channels carried downsampled in the analysis bundle. Fused metrics are
// always downsampled in full.
var downsampledChannels = map[types.ChunkType][]string{
	types.ChunkEEG: {"bandPowers.alpha", "bandPowers.beta", "indices.focusIndex", "indices.relaxationIndex", "indices.stressIndex"},
	types.ChunkPPG: {"heartRate", "hrvTimeDomain.rmssd", "hrvFrequencyDomain.lfHfRatio", "stressIndex"},
	types.ChunkACC: {"activityLevel", "magnitude"},
}

type modality struct {
	chunkType  types.ChunkType
	timestamps []int64
	channels   []types.Channel
}

func presentModalities(s *types.ProcessedSessionTimeSeries) []modality {
	var out []modality
	if s.EEG != nil {
		out = append(out, modality{types.ChunkEEG, s.EEG.Timestamps, s.EEG.Channels()})
	}
	if s.PPG != nil {
		out = append(out, modality{types.ChunkPPG, s.PPG.Timestamps, s.PPG.Channels()})
	}
	if s.ACC != nil {
		out = append(out, modality{types.ChunkACC, s.ACC.Timestamps, s.ACC.Channels()})
	}
	return out
}

// FormatForAnalysis derives the read-only analysis bundle: session info,
// full-resolution series by modality, per-channel statistics, fused-metric
// statistics and downsampled key channels.
func FormatForAnalysis(session *types.ProcessedSessionTimeSeries, subject *types.SubjectProfile, downsampleLength int) (*types.AnalysisBundle, error) {
	if session == nil {
		return nil, fmt.Errorf("session is nil")
	}

	bundle := &types.AnalysisBundle{
		Session: types.SessionInfo{
			SessionID:         session.SessionID,
			MeasurementID:     session.MeasurementID,
			StartTime:         session.StartTime,
			EndTime:           session.EndTime,
			DurationSeconds:   session.Duration,
			SamplingRates:     session.Metadata.SamplingRates,
			ProcessingVersion: session.Metadata.ProcessingVersion,
			QualityScore:      session.Metadata.QualityScore,
		},
		Subject:     subject,
		TimeSeries:  make(map[types.ChunkType]types.ModalitySeries),
		Statistics:  make(map[types.ChunkType]map[string]types.StatisticalSummary),
		Downsampled: make(map[types.ChunkType]map[string][]float64),
	}

	for _, m := range presentModalities(session) {
		series, stats, err := describe(m.chunkType, m.timestamps, m.channels)
		if err != nil {
			return nil, err
		}
		bundle.TimeSeries[m.chunkType] = series
		bundle.Statistics[m.chunkType] = stats

		reduced, err := downsampleSelected(series.Channels, downsampledChannels[m.chunkType], downsampleLength)
		if err != nil {
			return nil, err
		}
		bundle.Downsampled[m.chunkType] = reduced
	}

	if f := session.FusedMetrics; f != nil {
		series, stats, err := describe(types.ChunkFused, f.Timestamps, f.Channels())
		if err != nil {
			return nil, err
		}
		bundle.TimeSeries[types.ChunkFused] = series
		bundle.FusedStatistics = stats

		names := make([]string, 0, len(series.Channels))
		for name := range series.Channels {
			names = append(names, name)
		}
		slices.Sort(names)
		reduced, err := downsampleSelected(series.Channels, names, downsampleLength)
		if err != nil {
			return nil, err
		}
		bundle.Downsampled[types.ChunkFused] = reduced
	}

	return bundle, nil
}

func describe(chunkType types.ChunkType, timestamps []int64, channels []types.Channel) (types.ModalitySeries, map[string]types.StatisticalSummary, error) {
	series := types.ModalitySeries{
		Timestamps: timestamps,
		Channels:   make(map[string][]float64, len(channels)),
	}
	stats := make(map[string]types.StatisticalSummary, len(channels))

	for _, ch := range channels {
		series.Channels[ch.Name] = ch.Values
		summary, err := utils.ComputeStatistics(ch.Values)
		if err != nil {
			return series, nil, fmt.Errorf("%s.%s: %w", chunkType, ch.Name, err)
		}
		stats[ch.Name] = summary
	}

	return series, stats, nil
}

func downsampleSelected(channels map[string][]float64, names []string, length int) (map[string][]float64, error) {
	out := make(map[string][]float64, len(names))
	for _, name := range names {
		values, ok := channels[name]
		if !ok {
			continue
		}
		reduced, err := utils.Downsample(values, length)
		if err != nil {
			return nil, fmt.Errorf("downsample %s: %w", name, err)
		}
		out[name] = reduced
	}
	return out, nil
}

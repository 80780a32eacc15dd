package types

import "time"

type StatisticalSummary struct {
	Mean         float64 `json:"mean"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Median       float64 `json:"median"`
	Std          float64 `json:"std"`
	Percentile25 float64 `json:"percentile25"`
	Percentile75 float64 `json:"percentile75"`
}

// AnalysisBundle is the analysis-ready view of a stored session. It is the
// only shape handed to the integration engine; chunk layout never leaks here.
type AnalysisBundle struct {
	Session         SessionInfo                                 `json:"session"`
	Subject         *SubjectProfile                             `json:"subject,omitempty"`
	TimeSeries      map[ChunkType]ModalitySeries                `json:"timeSeries"`
	Statistics      map[ChunkType]map[string]StatisticalSummary `json:"statistics"`
	FusedStatistics map[string]StatisticalSummary               `json:"fusedStatistics,omitempty"`
	Downsampled     map[ChunkType]map[string][]float64          `json:"downsampled"`
}

type SessionInfo struct {
	SessionID         string        `json:"sessionId"`
	MeasurementID     string        `json:"measurementId"`
	StartTime         time.Time     `json:"startTime"`
	EndTime           time.Time     `json:"endTime"`
	DurationSeconds   int           `json:"durationSeconds"`
	SamplingRates     SamplingRates `json:"samplingRates"`
	ProcessingVersion string        `json:"processingVersion"`
	QualityScore      float64       `json:"qualityScore"`
}

type ModalitySeries struct {
	Timestamps []int64              `json:"timestamps"`
	Channels   map[string][]float64 `json:"channels"`
}

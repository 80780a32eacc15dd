package types

import "time"

type ChunkType string

const (
	ChunkEEG   ChunkType = "eeg"
	ChunkPPG   ChunkType = "ppg"
	ChunkACC   ChunkType = "acc"
	ChunkFused ChunkType = "fused"
)

// ProcessedSessionTimeSeries is one measurement session as produced by the
// upstream signal-processing stage. It is never mutated after construction.
type ProcessedSessionTimeSeries struct {
	SessionID     string    `json:"sessionId" validate:"required"`
	MeasurementID string    `json:"measurementId" validate:"required"`
	StartTime     time.Time `json:"startTime" validate:"required"`
	EndTime       time.Time `json:"endTime" validate:"required"`
	Duration      int       `json:"duration" validate:"gt=0"` // seconds

	EEG          *EEGTimeSeries  `json:"eeg,omitempty"`
	PPG          *PPGTimeSeries  `json:"ppg,omitempty"`
	ACC          *ACCTimeSeries  `json:"acc,omitempty"`
	FusedMetrics *FusedMetrics   `json:"fusedMetrics,omitempty"`
	Metadata     SessionMetadata `json:"metadata"`
}

type SessionMetadata struct {
	SamplingRates     SamplingRates `json:"samplingRates"`
	ProcessingVersion string        `json:"processingVersion"`
	QualityScore      float64       `json:"qualityScore" validate:"gte=0,lte=100"`
}

// SamplingRates are in Hz. A rate is only consulted for a modality that is present.
type SamplingRates struct {
	EEG   float64 `json:"eeg"`
	PPG   float64 `json:"ppg"`
	ACC   float64 `json:"acc"`
	Fused float64 `json:"fused"`
}

type BandPowers struct {
	Delta []float64 `json:"delta"`
	Theta []float64 `json:"theta"`
	Alpha []float64 `json:"alpha"`
	Beta  []float64 `json:"beta"`
	Gamma []float64 `json:"gamma"`
}

type EEGIndices struct {
	FocusIndex         []float64 `json:"focusIndex"`
	RelaxationIndex    []float64 `json:"relaxationIndex"`
	StressIndex        []float64 `json:"stressIndex"`
	HemisphericBalance []float64 `json:"hemisphericBalance"`
	CognitiveLoad      []float64 `json:"cognitiveLoad"`
	EmotionalStability []float64 `json:"emotionalStability"`
}

type EEGTimeSeries struct {
	Timestamps    []int64    `json:"timestamps"`
	BandPowers    BandPowers `json:"bandPowers"`
	Indices       EEGIndices `json:"indices"`
	SignalQuality []float64  `json:"signalQuality"`
}

type HRVTimeDomain struct {
	RMSSD []float64 `json:"rmssd"`
	SDNN  []float64 `json:"sdnn"`
	PNN50 []float64 `json:"pnn50"`
}

type HRVFrequencyDomain struct {
	LF        []float64 `json:"lf"`
	HF        []float64 `json:"hf"`
	LFHFRatio []float64 `json:"lfHfRatio"`
}

type PPGTimeSeries struct {
	Timestamps         []int64            `json:"timestamps"`
	HeartRate          []float64          `json:"heartRate"`
	SpO2               []float64          `json:"spo2"`
	HRVTimeDomain      HRVTimeDomain      `json:"hrvTimeDomain"`
	HRVFrequencyDomain HRVFrequencyDomain `json:"hrvFrequencyDomain"`
	StressIndex        []float64          `json:"stressIndex"`
	SignalQuality      []float64          `json:"signalQuality"`
}

type ACCTimeSeries struct {
	Timestamps        []int64   `json:"timestamps"`
	X                 []float64 `json:"x"`
	Y                 []float64 `json:"y"`
	Z                 []float64 `json:"z"`
	Magnitude         []float64 `json:"magnitude"`
	ActivityLevel     []float64 `json:"activityLevel"`
	MovementIntensity []float64 `json:"movementIntensity"`
}

type FusedMetrics struct {
	Timestamps      []int64   `json:"timestamps"`
	OverallStress   []float64 `json:"overallStress"`
	CognitiveStress []float64 `json:"cognitiveStress"`
	PhysicalStress  []float64 `json:"physicalStress"`
	FatigueLevel    []float64 `json:"fatigueLevel"`
	AlertnessLevel  []float64 `json:"alertnessLevel"`
	WellbeingScore  []float64 `json:"wellbeingScore"`
}

// Channel is one named sample sequence of a modality bundle. Names are the
// dotted paths exposed in the analysis bundle, e.g. "bandPowers.delta".
type Channel struct {
	Name   string
	Values []float64
}

func (e *EEGTimeSeries) Channels() []Channel {
	return []Channel{
		{"bandPowers.delta", e.BandPowers.Delta},
		{"bandPowers.theta", e.BandPowers.Theta},
		{"bandPowers.alpha", e.BandPowers.Alpha},
		{"bandPowers.beta", e.BandPowers.Beta},
		{"bandPowers.gamma", e.BandPowers.Gamma},
		{"indices.focusIndex", e.Indices.FocusIndex},
		{"indices.relaxationIndex", e.Indices.RelaxationIndex},
		{"indices.stressIndex", e.Indices.StressIndex},
		{"indices.hemisphericBalance", e.Indices.HemisphericBalance},
		{"indices.cognitiveLoad", e.Indices.CognitiveLoad},
		{"indices.emotionalStability", e.Indices.EmotionalStability},
		{"signalQuality", e.SignalQuality},
	}
}

func (p *PPGTimeSeries) Channels() []Channel {
	return []Channel{
		{"heartRate", p.HeartRate},
		{"spo2", p.SpO2},
		{"hrvTimeDomain.rmssd", p.HRVTimeDomain.RMSSD},
		{"hrvTimeDomain.sdnn", p.HRVTimeDomain.SDNN},
		{"hrvTimeDomain.pnn50", p.HRVTimeDomain.PNN50},
		{"hrvFrequencyDomain.lf", p.HRVFrequencyDomain.LF},
		{"hrvFrequencyDomain.hf", p.HRVFrequencyDomain.HF},
		{"hrvFrequencyDomain.lfHfRatio", p.HRVFrequencyDomain.LFHFRatio},
		{"stressIndex", p.StressIndex},
		{"signalQuality", p.SignalQuality},
	}
}

func (a *ACCTimeSeries) Channels() []Channel {
	return []Channel{
		{"x", a.X},
		{"y", a.Y},
		{"z", a.Z},
		{"magnitude", a.Magnitude},
		{"activityLevel", a.ActivityLevel},
		{"movementIntensity", a.MovementIntensity},
	}
}

func (f *FusedMetrics) Channels() []Channel {
	return []Channel{
		{"overallStress", f.OverallStress},
		{"cognitiveStress", f.CognitiveStress},
		{"physicalStress", f.PhysicalStress},
		{"fatigueLevel", f.FatigueLevel},
		{"alertnessLevel", f.AlertnessLevel},
		{"wellbeingScore", f.WellbeingScore},
	}
}

// HasModality reports whether at least one of eeg/ppg/acc is present.
func (s *ProcessedSessionTimeSeries) HasModality() bool {
	return s.EEG != nil || s.PPG != nil || s.ACC != nil
}

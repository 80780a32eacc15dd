package types

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type SubjectProfile struct {
	Age        int        `json:"age" validate:"gt=0,lte=130"`
	Gender     Gender     `json:"gender" validate:"required,oneof=male female other"`
	Occupation string     `json:"occupation,omitempty"`
	Lifestyle  *Lifestyle `json:"lifestyle,omitempty"`
}

type Lifestyle struct {
	SleepHours        *float64 `json:"sleepHours,omitempty" validate:"omitempty,gte=0,lte=24"`
	ExerciseFrequency string   `json:"exerciseFrequency,omitempty"`
	StressLevel       string   `json:"stressLevel,omitempty"`
}

type ClinicalSignificance string

const (
	SignificanceNormal   ClinicalSignificance = "normal"
	SignificanceMild     ClinicalSignificance = "mild"
	SignificanceModerate ClinicalSignificance = "moderate"
	SignificanceSevere   ClinicalSignificance = "severe"
)

// Dimension names produced by the upstream EEG and PPG analyses.
const (
	DimEmotionalBalance = "emotionalBalance"
	DimBrainFocus       = "brainFocus"
	DimBrainArousal     = "brainArousal"
	DimStressLevel      = "stressLevel"

	DimStressHealth    = "stressHealth"
	DimAutonomicHealth = "autonomicHealth"
	DimHRVHealth       = "hrvHealth"
)

var (
	EEGDimensions = []string{DimEmotionalBalance, DimBrainFocus, DimBrainArousal, DimStressLevel}
	PPGDimensions = []string{DimStressHealth, DimAutonomicHealth, DimHRVHealth}
)

type DimensionScore struct {
	Name                 string               `json:"name" validate:"required"`
	Score                float64              `json:"score" validate:"gte=0,lte=100"`
	Level                string               `json:"level"`
	ClinicalSignificance ClinicalSignificance `json:"clinicalSignificance" validate:"omitempty,oneof=normal mild moderate severe"`
	Interpretation       string               `json:"interpretation"`
	Recommendations      []string             `json:"recommendations"`
}

type SessionMeta struct {
	MeasurementDurationSeconds int `json:"measurementDurationSeconds"`
}

type IntegratedResult struct {
	OverallHealthScore float64                   `json:"overallHealthScore"`
	EEGOverallScore    *float64                  `json:"eegOverallScore"`
	PPGOverallScore    *float64                  `json:"ppgOverallScore"`
	EEGDimensions      map[string]DimensionScore `json:"eegDimensions"`
	PPGDimensions      map[string]DimensionScore `json:"ppgDimensions"`

	Summary              string               `json:"summary"`
	KeyFindings          []string             `json:"keyFindings"`
	PersonalizedAnalysis PersonalizedAnalysis `json:"personalizedAnalysis"`
	ImprovementPlan      ImprovementPlan      `json:"improvementPlan"`
	Recommendations      []string             `json:"recommendations"`
	MedicalConsultation  *MedicalConsultation `json:"medicalConsultation,omitempty"`

	Metadata ResultMetadata `json:"metadata"`
}

type PersonalizedAnalysis struct {
	AgeGroupAnalysis   string   `json:"ageGroupAnalysis"`
	GenderAnalysis     string   `json:"genderAnalysis"`
	OccupationAnalysis string   `json:"occupationAnalysis,omitempty"`
	Strengths          []string `json:"strengths"`
	Concerns           []string `json:"concerns"`
}

type ImprovementPlan struct {
	Immediate []ActionItem `json:"immediate"`
	ShortTerm []ActionItem `json:"shortTerm"`
	LongTerm  []ActionItem `json:"longTerm"`
}

type ActionItem struct {
	Action    string `json:"action"`
	Rationale string `json:"rationale,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
}

type MedicalConsultation struct {
	Recommended bool   `json:"recommended"`
	Reason      string `json:"reason,omitempty"`
	Urgency     string `json:"urgency,omitempty"`
}

type ResultSource string

const (
	SourceInference ResultSource = "inference"
	SourceFallback  ResultSource = "fallback"
	SourceError     ResultSource = "error"
)

type ResultMetadata struct {
	AnalysisID        string       `json:"analysisId"`
	AnalysisTimestamp time.Time    `json:"analysisTimestamp"`
	EngineVersion     string       `json:"engineVersion"`
	ProcessingTimeMs  int64        `json:"processingTimeMs"`
	DataQuality       string       `json:"dataQuality"`
	Source            ResultSource `json:"source"`
}

// SummaryResult is the generic analysis-result envelope consumed by report
// renderers.
type SummaryResult struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	OverallScore    float64   `json:"overallScore"`
	StressLevel     float64   `json:"stressLevel"`
	FocusLevel      float64   `json:"focusLevel"`
	Summary         string    `json:"summary"`
	Recommendations []string  `json:"recommendations"`
	CreatedAt       time.Time `json:"createdAt"`
}

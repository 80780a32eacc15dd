package integration

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"biometric-session-analyzer/src/types"
	"biometric-session-analyzer/src/utils"

	"github.com/google/uuid"
)

const (
	attentionThreshold = 70

	defaultStressScore = 60
	defaultFocusScore  = 75
)

var displayNames = map[string]string{
	types.DimEmotionalBalance: "Emotional balance",
	types.DimBrainFocus:       "Brain focus",
	types.DimBrainArousal:     "Brain arousal",
	types.DimStressLevel:      "Stress level",
	types.DimStressHealth:     "Stress health",
	types.DimAutonomicHealth:  "Autonomic health",
	types.DimHRVHealth:        "HRV health",
}

func displayName(dim string) string {
	if name, ok := displayNames[dim]; ok {
		return name
	}
	return dim
}

func bandOf(score float64) string {
	return utils.ComputeScoreBand(score).String()
}

// orderedDimensions lists the named EEG dimensions, then the named PPG ones,
// then any other dimension sorted by name.
func orderedDimensions(eeg, ppg map[string]types.DimensionScore) []types.DimensionScore {
	var out []types.DimensionScore
	seen := map[string]bool{}

	for _, group := range []struct {
		dims  map[string]types.DimensionScore
		names []string
	}{{eeg, types.EEGDimensions}, {ppg, types.PPGDimensions}} {
		for _, name := range group.names {
			if d, ok := group.dims[name]; ok {
				out = append(out, d)
				seen[name] = true
			}
		}
	}

	var extra []types.DimensionScore
	for _, dims := range []map[string]types.DimensionScore{eeg, ppg} {
		for name, d := range dims {
			if !seen[name] {
				extra = append(extra, d)
			}
		}
	}
	sort.SliceStable(extra, func(i, j int) bool {
		if extra[i].Name != extra[j].Name {
			return extra[i].Name < extra[j].Name
		}
		return extra[i].Score < extra[j].Score
	})
	return append(out, extra...)
}

// SynthesizeSummary writes one clause per dimension score, banded at
// 90/80/70/60, and closes with a recommendation when a stress or focus
// dimension is below 70. Identical scores always yield identical text.
func SynthesizeSummary(eeg, ppg map[string]types.DimensionScore) string {
	dims := orderedDimensions(eeg, ppg)
	if len(dims) == 0 {
		return "No dimension scores were available for this measurement."
	}

	clauses := make([]string, 0, len(dims)+1)
	for _, d := range dims {
		clauses = append(clauses, fmt.Sprintf("%s is %s (%.0f).", displayName(d.Name), bandOf(d.Score), d.Score))
	}

	stressLow := belowThreshold(eeg, types.DimStressLevel) || belowThreshold(ppg, types.DimStressHealth)
	focusLow := belowThreshold(eeg, types.DimBrainFocus)
	switch {
	case stressLow && focusLow:
		clauses = append(clauses, "Stress management and focus training are recommended.")
	case stressLow:
		clauses = append(clauses, "Stress management through rest and paced breathing is recommended.")
	case focusLow:
		clauses = append(clauses, "Focus training and regular short breaks are recommended.")
	}

	return strings.Join(clauses, " ")
}

func belowThreshold(dims map[string]types.DimensionScore, name string) bool {
	d, ok := dims[name]
	return ok && d.Score < attentionThreshold
}

// ConvertToSummaryResult projects a result into the generic report envelope.
func ConvertToSummaryResult(result types.IntegratedResult, now time.Time) types.SummaryResult {
	eegStress := scoreOr(result.EEGDimensions, types.DimStressLevel, defaultStressScore)
	ppgStress := scoreOr(result.PPGDimensions, types.DimStressHealth, defaultStressScore)

	id := result.Metadata.AnalysisID
	if id == "" {
		id = uuid.NewString()
	}
	recommendations := result.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	return types.SummaryResult{
		ID:              id,
		Type:            "integrated",
		OverallScore:    result.OverallHealthScore,
		StressLevel:     (eegStress + ppgStress) / 2,
		FocusLevel:      scoreOr(result.EEGDimensions, types.DimBrainFocus, defaultFocusScore),
		Summary:         SynthesizeSummary(result.EEGDimensions, result.PPGDimensions),
		Recommendations: recommendations,
		CreatedAt:       now,
	}
}

func scoreOr(dims map[string]types.DimensionScore, name string, def float64) float64 {
	if d, ok := dims[name]; ok {
		return d.Score
	}
	return def
}

package integration

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"biometric-session-analyzer/src/types"
)

const responseShape = `{
  "summary": string,
  "keyFindings": [string],
  "personalizedAnalysis": {"ageGroupAnalysis": string, "genderAnalysis": string, "occupationAnalysis": string, "strengths": [string], "concerns": [string]},
  "improvementPlan": {"immediate": [{"action": string, "rationale": string, "timeframe": string}], "shortTerm": [...], "longTerm": [...]},
  "recommendations": [string],
  "medicalConsultation": {"recommended": bool, "reason": string, "urgency": string}
}`

func buildPrompt(req Request, agg Aggregates) (string, error) {
	var b strings.Builder

	b.WriteString("Integrate the following EEG and PPG sub-analyses into one health assessment.\n\n")

	fmt.Fprintf(&b, "Subject: age %d, gender %s", req.Subject.Age, req.Subject.Gender)
	if req.Subject.Occupation != "" {
		fmt.Fprintf(&b, ", occupation %s", req.Subject.Occupation)
	}
	b.WriteString("\n")
	if ls := req.Subject.Lifestyle; ls != nil {
		if ls.SleepHours != nil {
			fmt.Fprintf(&b, "Sleep: %.1f hours\n", *ls.SleepHours)
		}
		if ls.ExerciseFrequency != "" {
			fmt.Fprintf(&b, "Exercise: %s\n", ls.ExerciseFrequency)
		}
		if ls.StressLevel != "" {
			fmt.Fprintf(&b, "Self-reported stress: %s\n", ls.StressLevel)
		}
	}
	fmt.Fprintf(&b, "Measurement duration: %d seconds\n\n", req.Session.MeasurementDurationSeconds)

	writeDimensions(&b, "EEG", req.EEG, agg.EEG)
	writeDimensions(&b, "PPG", req.PPG, agg.PPG)
	fmt.Fprintf(&b, "Overall health score: %.2f\n\n", agg.Overall)

	if req.Bundle != nil {
		stats, err := json.Marshal(struct {
			Statistics      map[types.ChunkType]map[string]types.StatisticalSummary `json:"statistics"`
			FusedStatistics map[string]types.StatisticalSummary                     `json:"fusedStatistics,omitempty"`
		}{req.Bundle.Statistics, req.Bundle.FusedStatistics})
		if err != nil {
			return "", fmt.Errorf("failed to encode session statistics: %w", err)
		}
		fmt.Fprintf(&b, "Session statistics (quality %.0f/100):\n%s\n\n", req.Bundle.Session.QualityScore, stats)
	}

	b.WriteString("The scores above are final; do not change them. Respond with one JSON object of this shape:\n")
	b.WriteString(responseShape)
	b.WriteString("\n")
	return b.String(), nil
}

func writeDimensions(b *strings.Builder, label string, scores []types.DimensionScore, overall *float64) {
	if scores == nil {
		fmt.Fprintf(b, "%s analysis: not available\n", label)
		return
	}

	sorted := make([]types.DimensionScore, len(scores))
	copy(sorted, scores)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	fmt.Fprintf(b, "%s dimensions:\n", label)
	for _, d := range sorted {
		fmt.Fprintf(b, "- %s: %.1f (%s, %s)", d.Name, d.Score, d.Level, d.ClinicalSignificance)
		if d.Interpretation != "" {
			fmt.Fprintf(b, " %s", d.Interpretation)
		}
		b.WriteString("\n")
	}
	if overall != nil {
		fmt.Fprintf(b, "%s overall score: %.2f\n", label, *overall)
	}
}

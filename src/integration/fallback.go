package integration

import (
	"encoding/json"
	"fmt"
	"math"

	"biometric-session-analyzer/src/types"
)

// mockDocument builds a complete response document without an inference
// service. It depends only on its inputs: the subject's age shifts a base
// score by a few points, nothing is random.
func mockDocument(req Request, agg Aggregates, eeg, ppg map[string]types.DimensionScore) (map[string]interface{}, error) {
	base := ageAdjustedScore(agg.Overall, req.Subject.Age)
	group := ageGroup(req.Subject.Age)

	strengths, concerns := splitDimensions(eeg, ppg)
	if len(strengths) == 0 {
		strengths = []string{"Measurement completed with usable signal"}
	}
	if len(concerns) == 0 {
		concerns = []string{"No dimension below the attention threshold"}
	}

	mock := types.IntegratedResult{
		OverallHealthScore: base,
		Summary:            SynthesizeSummary(eeg, ppg),
		KeyFindings:        keyFindings(agg),
		PersonalizedAnalysis: types.PersonalizedAnalysis{
			AgeGroupAnalysis: fmt.Sprintf("Reference score for the %s age group is %.0f.", group, base),
			GenderAnalysis:   fmt.Sprintf("Interpreted against %s reference ranges.", req.Subject.Gender),
			Strengths:        strengths,
			Concerns:         concerns,
		},
		ImprovementPlan: types.ImprovementPlan{
			Immediate: []types.ActionItem{{Action: "Take a five minute paced-breathing break", Rationale: "Lowers acute sympathetic load", Timeframe: "today"}},
			ShortTerm: []types.ActionItem{{Action: "Keep a regular sleep schedule", Rationale: "Supports heart rate variability recovery", Timeframe: "2-4 weeks"}},
			LongTerm:  []types.ActionItem{{Action: "Repeat the measurement monthly", Rationale: "Tracks the trend of each dimension", Timeframe: "3 months"}},
		},
		Recommendations: []string{
			"Repeat the measurement under the same conditions to confirm the trend",
			"Maintain regular physical activity and sleep",
		},
	}
	if req.Subject.Occupation != "" {
		mock.PersonalizedAnalysis.OccupationAnalysis = fmt.Sprintf("Consider workload patterns typical for %s.", req.Subject.Occupation)
	}
	if agg.Overall < 60 {
		mock.MedicalConsultation = &types.MedicalConsultation{
			Recommended: true,
			Reason:      "Overall score in the poor band",
			Urgency:     "routine",
		}
	}

	raw, err := json.Marshal(mock)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ageAdjustedScore shifts score by (age mod 7) - 3 points, clamped to [0,100].
func ageAdjustedScore(score float64, age int) float64 {
	adjusted := score + float64(age%7-3)
	return math.Max(0, math.Min(100, adjusted))
}

func ageGroup(age int) string {
	switch {
	case age < 20:
		return "under 20"
	case age >= 70:
		return "70+"
	default:
		decade := age / 10 * 10
		return fmt.Sprintf("%d-%d", decade, decade+9)
	}
}

func keyFindings(agg Aggregates) []string {
	findings := []string{fmt.Sprintf("Overall health score %.1f (%s)", agg.Overall, bandOf(agg.Overall))}
	if agg.EEG != nil {
		findings = append(findings, fmt.Sprintf("EEG overall score %.1f (%s)", *agg.EEG, bandOf(*agg.EEG)))
	}
	if agg.PPG != nil {
		findings = append(findings, fmt.Sprintf("PPG overall score %.1f (%s)", *agg.PPG, bandOf(*agg.PPG)))
	}
	return findings
}

func splitDimensions(eeg, ppg map[string]types.DimensionScore) (strengths, concerns []string) {
	for _, d := range orderedDimensions(eeg, ppg) {
		label := displayName(d.Name)
		switch {
		case d.Score >= 80:
			strengths = append(strengths, fmt.Sprintf("%s is %s", label, bandOf(d.Score)))
		case d.Score < attentionThreshold:
			concerns = append(concerns, fmt.Sprintf("%s is %s", label, bandOf(d.Score)))
		}
	}
	return strengths, concerns
}

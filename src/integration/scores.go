package integration

import (
	"biometric-session-analyzer/src/types"
	"biometric-session-analyzer/src/utils"
)

// Aggregates are the three scores derived from the dimension maps. A nil
// modality score means none of its named dimensions was supplied.
type Aggregates struct {
	EEG     *float64
	PPG     *float64
	Overall float64
}

// Aggregate computes the unweighted means over the named dimensions that are
// present. ok is false when neither modality has one.
func Aggregate(eeg, ppg map[string]types.DimensionScore) (agg Aggregates, ok bool) {
	agg.EEG = namedMean(eeg, types.EEGDimensions)
	agg.PPG = namedMean(ppg, types.PPGDimensions)

	switch {
	case agg.EEG != nil && agg.PPG != nil:
		agg.Overall = utils.Average([]float64{*agg.EEG, *agg.PPG})
	case agg.EEG != nil:
		agg.Overall = *agg.EEG
	case agg.PPG != nil:
		agg.Overall = *agg.PPG
	default:
		return agg, false
	}
	return agg, true
}

func namedMean(dims map[string]types.DimensionScore, names []string) *float64 {
	var scores []float64
	for _, name := range names {
		if d, ok := dims[name]; ok {
			scores = append(scores, d.Score)
		}
	}
	if len(scores) == 0 {
		return nil
	}
	mean := utils.Average(scores)
	return &mean
}

// applyAggregates overwrites whatever aggregate fields the response carried.
func applyAggregates(doc map[string]interface{}, agg Aggregates) {
	doc["overallHealthScore"] = agg.Overall
	doc["eegOverallScore"] = floatOrNil(agg.EEG)
	doc["ppgOverallScore"] = floatOrNil(agg.PPG)
}

func floatOrNil(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func indexDimensions(scores []types.DimensionScore) map[string]types.DimensionScore {
	dims := make(map[string]types.DimensionScore, len(scores))
	for _, s := range scores {
		dims[s.Name] = s
	}
	return dims
}

func dataQualityTier(bundle *types.AnalysisBundle) string {
	if bundle == nil {
		return "unknown"
	}
	switch q := bundle.Session.QualityScore; {
	case q >= 80:
		return "high"
	case q >= 60:
		return "medium"
	default:
		return "low"
	}
}

package utils

type ScoreBand string

const (
	EXCELLENT ScoreBand = "excellent"
	GOOD      ScoreBand = "good"
	FAIR      ScoreBand = "fair"
	MARGINAL  ScoreBand = "marginal"
	POOR      ScoreBand = "poor"
)

func (b ScoreBand) String() string {
	return string(b)
}

func ComputeScoreBand(score float64) ScoreBand {
	if score >= 90 {
		return EXCELLENT
	}

	if score >= 80 {
		return GOOD
	}

	if score >= 70 {
		return FAIR
	}

	if score >= 60 {
		return MARGINAL
	}

	return POOR
}

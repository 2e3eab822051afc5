package analysis

import "math"

// Score bounds.
const (
	scoreMax = 100
	scoreMin = 0
)

// Per-issue score penalties by severity.
const (
	penaltyHigh   = 15
	penaltyMedium = 8
	penaltyLow    = 3
)

// Default dimension weights for the overall score.
const (
	defaultWeightMaintainability = 0.30
	defaultWeightReliability     = 0.25
	defaultWeightSecurity        = 0.25
	defaultWeightPerformance     = 0.20
)

// ScorePolicy computes the overall quality score as a weighted mean of the
// four dimensions. Dimensions whose category was not selected carry zero
// weight, so unselected categories contribute no penalty; remaining weights
// are renormalized.
type ScorePolicy struct {
	Maintainability float64
	Reliability     float64
	Security        float64
	Performance     float64
}

// DefaultScorePolicy returns the default dimension weighting.
func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		Maintainability: defaultWeightMaintainability,
		Reliability:     defaultWeightReliability,
		Security:        defaultWeightSecurity,
		Performance:     defaultWeightPerformance,
	}
}

// dimensionWeights maps selected categories to dimension weights, in the
// order maintainability, reliability, security, performance. The quality
// category measures error-proneness and feeds reliability.
func dimensionWeights(p ScorePolicy, cfg Config) (weights [4]float64) {
	if cfg.HasCategory(CategoryMaintainability) {
		weights[0] = p.Maintainability
	}

	if cfg.HasCategory(CategoryQuality) {
		weights[1] = p.Reliability
	}

	if cfg.HasCategory(CategorySecurity) {
		weights[2] = p.Security
	}

	if cfg.HasCategory(CategoryPerformance) {
		weights[3] = p.Performance
	}

	return weights
}

// Overall computes the weighted overall score from the four dimension scores,
// renormalized over the selected categories. With no selected category the
// result is 0 (such a run never starts).
func (p ScorePolicy) Overall(score QualityScore, cfg Config) int {
	weights := dimensionWeights(p, cfg)
	dims := [4]int{score.Maintainability, score.Reliability, score.Security, score.Performance}

	var weightSum, total float64

	for i, w := range weights {
		weightSum += w
		total += w * float64(dims[i])
	}

	if weightSum == 0 {
		return 0
	}

	return clampScore(int(math.Round(total / weightSum)))
}

// DimensionScore derives a 0-100 dimension score from the issues attributed
// to one category. Every issue subtracts a severity-dependent penalty from a
// perfect score.
func DimensionScore(issues []Issue, cat Category) int {
	score := scoreMax

	for _, issue := range issues {
		if Category(issue.Category) != cat {
			continue
		}

		switch issue.Severity {
		case SeverityHigh:
			score -= penaltyHigh
		case SeverityMedium:
			score -= penaltyMedium
		case SeverityLow:
			score -= penaltyLow
		}
	}

	return clampScore(score)
}

// ComputeScore builds the full QualityScore for a run from its issue set.
// Unselected categories keep a perfect dimension score but carry zero weight
// for the overall value.
func ComputeScore(policy ScorePolicy, issues []Issue, cfg Config) QualityScore {
	score := QualityScore{
		Maintainability: DimensionScore(issues, CategoryMaintainability),
		Reliability:     DimensionScore(issues, CategoryQuality),
		Security:        DimensionScore(issues, CategorySecurity),
		Performance:     DimensionScore(issues, CategoryPerformance),
	}

	score.Overall = policy.Overall(score, cfg)

	return score
}

func clampScore(v int) int {
	if v > scoreMax {
		return scoreMax
	}

	if v < scoreMin {
		return scoreMin
	}

	return v
}

package metrics

import "math"

// EffectLabel is the categorical magnitude of a Cohen's d effect size.
type EffectLabel string

const (
	EffectNegligible EffectLabel = "Negligible"
	EffectSmall      EffectLabel = "Small"
	EffectMedium     EffectLabel = "Medium"
	EffectLarge      EffectLabel = "Large"
)

// ClassifyEffect maps |d| onto the conventional Cohen buckets:
// <0.2 Negligible, <0.5 Small, <0.8 Medium, else Large.
func ClassifyEffect(d float64) EffectLabel {
	abs := math.Abs(d)
	switch {
	case abs < 0.2:
		return EffectNegligible
	case abs < 0.5:
		return EffectSmall
	case abs < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// Bonferroni adjusts a raw p-value for a family of comparisons:
// min(p * comparisons, 1.0). A family of size <= 1 returns p unchanged.
func Bonferroni(p float64, comparisons int) float64 {
	if comparisons <= 1 {
		return p
	}
	adjusted := p * float64(comparisons)
	if adjusted > 1.0 {
		return 1.0
	}
	return adjusted
}

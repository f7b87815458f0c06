package metrics

import (
	"math"
	"testing"
)

func TestClassifyEffect_Thresholds(t *testing.T) {
	cases := []struct {
		d    float64
		want EffectLabel
	}{
		{0.0, EffectNegligible},
		{0.19, EffectNegligible},
		{0.2, EffectSmall},
		{0.49, EffectSmall},
		{0.5, EffectMedium},
		{0.79, EffectMedium},
		{0.8, EffectLarge},
		{3.5, EffectLarge},
	}

	for _, c := range cases {
		if got := ClassifyEffect(c.d); got != c.want {
			t.Errorf("ClassifyEffect(%v) = %s, want %s", c.d, got, c.want)
		}
	}
}

func TestClassifyEffect_SignIgnored(t *testing.T) {
	for _, d := range []float64{0.1, 0.3, 0.6, 1.2} {
		if ClassifyEffect(d) != ClassifyEffect(-d) {
			t.Errorf("label for d=%v differs from d=%v", d, -d)
		}
	}
}

func TestBonferroni(t *testing.T) {
	t.Run("scales by family size", func(t *testing.T) {
		if got := Bonferroni(0.01, 5); got != 0.05 {
			t.Errorf("Bonferroni(0.01, 5) = %v, want 0.05", got)
		}
	})

	t.Run("caps at one", func(t *testing.T) {
		if got := Bonferroni(0.4, 5); got != 1.0 {
			t.Errorf("Bonferroni(0.4, 5) = %v, want 1.0", got)
		}
	})

	t.Run("never below raw p", func(t *testing.T) {
		for _, p := range []float64{0.0, 0.001, 0.05, 0.5, 1.0} {
			for m := 1; m <= 6; m++ {
				adj := Bonferroni(p, m)
				if adj < p {
					t.Errorf("Bonferroni(%v, %d) = %v below raw p", p, m, adj)
				}
				if adj > 1.0 {
					t.Errorf("Bonferroni(%v, %d) = %v above 1.0", p, m, adj)
				}
				if want := math.Min(p*float64(m), 1.0); m > 1 && adj != want {
					t.Errorf("Bonferroni(%v, %d) = %v, want %v", p, m, adj, want)
				}
			}
		}
	})
}

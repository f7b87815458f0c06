package pipeline

import (
	"math"

	moremath "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gazelab/domain/metrics"
)

// confidenceLevel is the two-sided confidence of the reported intervals.
const confidenceLevel = 0.95

// Contrast names the two compared conditions. Differences, Cohen's d and the
// relative change are all oriented as A - B.
type Contrast struct {
	A string
	B string
}

// CompareByTracker runs the condition contrast once per eye tracker. Each
// tracker with at least three participants measured under both conditions
// gets a paired t-test on the matched differences; the rest fall back to a
// Welch independent test on the two condition samples. Raw p-values are
// Bonferroni-adjusted by the count of distinct trackers in the dataset.
// Trackers with degenerate samples (too small, zero variance) are skipped,
// not fatal.
func CompareByTracker(cells []metrics.Cell, contrast Contrast) ([]metrics.Comparison, []metrics.Skip) {
	trackers := Trackers(cells)
	family := len(trackers)

	var results []metrics.Comparison
	var skips []metrics.Skip
	for _, tracker := range trackers {
		comparison, err := compareTracker(cells, tracker, contrast)
		if err != nil {
			skips = append(skips, metrics.Skip{Tracker: tracker, Reason: err.Error()})
			continue
		}
		comparison.PAdjusted = metrics.Bonferroni(comparison.P, family)
		results = append(results, comparison)
	}
	return results, skips
}

// CompareOverall pools every tracker's cells per condition into one Welch
// test. It is a single comparison, so the raw p-value stands unadjusted.
func CompareOverall(cells []metrics.Cell, contrast Contrast) (metrics.Comparison, error) {
	comparison, err := independentComparison(
		conditionValues(cells, "", contrast.A),
		conditionValues(cells, "", contrast.B),
	)
	if err != nil {
		return metrics.Comparison{}, err
	}
	comparison.Tracker = "All trackers"
	comparison.PAdjusted = comparison.P
	return comparison, nil
}

// OneSampleByTracker tests each tracker's aggregated values against a null
// mean of zero, for metrics with no condition contrast (apparent gaze shift).
func OneSampleByTracker(cells []metrics.Cell) ([]metrics.Comparison, []metrics.Skip) {
	trackers := Trackers(cells)
	family := len(trackers)

	var results []metrics.Comparison
	var skips []metrics.Skip
	for _, tracker := range trackers {
		var values []float64
		for _, cell := range cells {
			if cell.Key.Tracker == tracker {
				values = append(values, cell.Value)
			}
		}

		sample := moremath.Sample{Xs: values}
		test, err := moremath.OneSampleTTest(sample, 0, moremath.LocationDiffers)
		if err != nil {
			skips = append(skips, metrics.Skip{Tracker: tracker, Reason: err.Error()})
			continue
		}

		mean := sample.Mean()
		sd := sample.StdDev()
		d := mean / sd
		ciLow, ciHigh := meanInterval(mean, sd, len(values), float64(len(values)-1))

		results = append(results, metrics.Comparison{
			Tracker:   tracker,
			Test:      metrics.TestOneSample,
			N1:        len(values),
			Mean1:     mean,
			SD1:       sd,
			T:         test.T,
			DF:        test.DoF,
			P:         test.P,
			PAdjusted: metrics.Bonferroni(test.P, family),
			MeanDiff:  mean,
			CILow:     ciLow,
			CIHigh:    ciHigh,
			CohenD:    d,
			Effect:    metrics.ClassifyEffect(d),
		})
	}
	return results, skips
}

// RelativeChange derives the per-participant percent change of condition A
// relative to condition B, one value per (participant, tracker) with both
// conditions present. Results come back as cells under a synthetic
// "relative_change" condition so Describe can summarize them per tracker.
func RelativeChange(cells []metrics.Cell, contrast Contrast) []metrics.Cell {
	type pairKey struct {
		participant string
		tracker     string
	}
	type pair struct {
		a, b       float64
		hasA, hasB bool
	}

	order := make([]pairKey, 0)
	pairs := make(map[pairKey]*pair)
	for _, cell := range cells {
		if cell.Key.Condition != contrast.A && cell.Key.Condition != contrast.B {
			continue
		}
		key := pairKey{participant: cell.Key.Participant, tracker: cell.Key.Tracker}
		p, ok := pairs[key]
		if !ok {
			p = &pair{}
			pairs[key] = p
			order = append(order, key)
		}
		if cell.Key.Condition == contrast.A {
			p.a, p.hasA = cell.Value, true
		} else {
			p.b, p.hasB = cell.Value, true
		}
	}

	var changes []metrics.Cell
	for _, key := range order {
		p := pairs[key]
		if !p.hasA || !p.hasB || p.b == 0 {
			continue
		}
		changes = append(changes, metrics.Cell{
			Key: metrics.CellKey{
				Participant: key.participant,
				Tracker:     key.tracker,
				Condition:   "relative_change",
			},
			Value: (p.a - p.b) / p.b * 100,
			Count: 1,
		})
	}
	return changes
}

func compareTracker(cells []metrics.Cell, tracker string, contrast Contrast) (metrics.Comparison, error) {
	pairedA, pairedB := pairedSamples(cells, tracker, contrast)
	if len(pairedA) >= 3 {
		return pairedComparison(tracker, pairedA, pairedB)
	}

	comparison, err := independentComparison(
		conditionValues(cells, tracker, contrast.A),
		conditionValues(cells, tracker, contrast.B),
	)
	if err != nil {
		return metrics.Comparison{}, err
	}
	comparison.Tracker = tracker
	return comparison, nil
}

// pairedSamples reshapes one tracker's cells to matched per-participant
// samples, keeping only participants present under both conditions. Order is
// the participants' encounter order, identical in both slices.
func pairedSamples(cells []metrics.Cell, tracker string, contrast Contrast) ([]float64, []float64) {
	type pair struct {
		a, b       float64
		hasA, hasB bool
	}

	order := make([]string, 0)
	byParticipant := make(map[string]*pair)
	for _, cell := range cells {
		if cell.Key.Tracker != tracker {
			continue
		}
		if cell.Key.Condition != contrast.A && cell.Key.Condition != contrast.B {
			continue
		}
		p, ok := byParticipant[cell.Key.Participant]
		if !ok {
			p = &pair{}
			byParticipant[cell.Key.Participant] = p
			order = append(order, cell.Key.Participant)
		}
		if cell.Key.Condition == contrast.A {
			p.a, p.hasA = cell.Value, true
		} else {
			p.b, p.hasB = cell.Value, true
		}
	}

	var sampleA, sampleB []float64
	for _, participant := range order {
		p := byParticipant[participant]
		if p.hasA && p.hasB {
			sampleA = append(sampleA, p.a)
			sampleB = append(sampleB, p.b)
		}
	}
	return sampleA, sampleB
}

func pairedComparison(tracker string, sampleA, sampleB []float64) (metrics.Comparison, error) {
	test, err := moremath.PairedTTest(sampleA, sampleB, 0, moremath.LocationDiffers)
	if err != nil {
		return metrics.Comparison{}, err
	}

	n := len(sampleA)
	diffs := make([]float64, n)
	for i := range sampleA {
		diffs[i] = sampleA[i] - sampleB[i]
	}
	diffSample := moremath.Sample{Xs: diffs}
	meanDiff := diffSample.Mean()
	sdDiff := diffSample.StdDev()

	a := moremath.Sample{Xs: sampleA}
	b := moremath.Sample{Xs: sampleB}
	d := meanDiff / sdDiff
	ciLow, ciHigh := meanInterval(meanDiff, sdDiff, n, float64(n-1))

	return metrics.Comparison{
		Tracker:   tracker,
		Test:      metrics.TestPaired,
		N1:        n,
		N2:        n,
		Mean1:     a.Mean(),
		SD1:       a.StdDev(),
		Mean2:     b.Mean(),
		SD2:       b.StdDev(),
		T:         test.T,
		DF:        test.DoF,
		P:         test.P,
		MeanDiff:  meanDiff,
		CILow:     ciLow,
		CIHigh:    ciHigh,
		CohenD:    d,
		Effect:    metrics.ClassifyEffect(d),
	}, nil
}

func independentComparison(valuesA, valuesB []float64) (metrics.Comparison, error) {
	a := moremath.Sample{Xs: valuesA}
	b := moremath.Sample{Xs: valuesB}

	test, err := moremath.TwoSampleWelchTTest(a, b, moremath.LocationDiffers)
	if err != nil {
		return metrics.Comparison{}, err
	}

	n1, n2 := float64(len(valuesA)), float64(len(valuesB))
	mean1, mean2 := a.Mean(), b.Mean()
	var1, var2 := a.Variance(), b.Variance()
	meanDiff := mean1 - mean2

	pooledSD := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	d := meanDiff / pooledSD

	// Welch interval on the mean difference, using the Satterthwaite df.
	se := math.Sqrt(var1/n1 + var2/n2)
	quantile := tQuantile(test.DoF)
	ciLow, ciHigh := meanDiff-quantile*se, meanDiff+quantile*se

	return metrics.Comparison{
		Test:     metrics.TestIndependent,
		N1:       len(valuesA),
		N2:       len(valuesB),
		Mean1:    mean1,
		SD1:      a.StdDev(),
		Mean2:    mean2,
		SD2:      b.StdDev(),
		T:        test.T,
		DF:       test.DoF,
		P:        test.P,
		MeanDiff: meanDiff,
		CILow:    ciLow,
		CIHigh:   ciHigh,
		CohenD:   d,
		Effect:   metrics.ClassifyEffect(d),
	}, nil
}

func meanInterval(mean, sd float64, n int, df float64) (float64, float64) {
	half := tQuantile(df) * sd / math.Sqrt(float64(n))
	return mean - half, mean + half
}

func tQuantile(df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return dist.Quantile(1 - (1-confidenceLevel)/2)
}

package metrics

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// Observation is one measurement row from a metric export: a single numeric
// value recorded for a participant on one eye tracker under one trial
// condition. Values may be NaN; loaders drop invalid rows before aggregation.
type Observation struct {
	Participant string  `json:"participant_id"`
	Tracker     string  `json:"eye_tracker"`
	Condition   string  `json:"trial_condition"`
	Value       float64 `json:"value"`
}

// CellKey uniquely identifies an aggregated cell
type CellKey struct {
	Participant string `json:"participant_id"`
	Tracker     string `json:"eye_tracker"`
	Condition   string `json:"trial_condition"`
}

// Cell is the mean of all valid observations sharing one
// (participant, tracker, condition) key.
// INVARIANTS:
// - Key is unique after aggregation
// - Count > 0 and Value is finite
type Cell struct {
	Key   CellKey `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// GroupStats holds the descriptive summary for one (tracker, condition) group.
type GroupStats struct {
	Tracker   string  `json:"eye_tracker"`
	Condition string  `json:"trial_condition"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	StdDev    float64 `json:"std"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Q25       float64 `json:"q25"`
	Q75       float64 `json:"q75"`
}

// TestKind identifies which hypothesis test produced a Comparison.
type TestKind string

const (
	TestPaired      TestKind = "paired"
	TestIndependent TestKind = "independent"
	TestOneSample   TestKind = "one_sample"
)

// Comparison contains one tracker's hypothesis-test result.
// INVARIANTS:
// - P and PAdjusted in [0.0, 1.0], PAdjusted >= P
// - CohenD sign matches the sign of MeanDiff
// - Effect is the categorical label of |CohenD|
type Comparison struct {
	Tracker   string      `json:"eye_tracker"`
	Test      TestKind    `json:"test"`
	N1        int         `json:"n1"`
	N2        int         `json:"n2"`
	Mean1     float64     `json:"mean1"`
	SD1       float64     `json:"sd1"`
	Mean2     float64     `json:"mean2"`
	SD2       float64     `json:"sd2"`
	T         float64     `json:"t"`
	DF        float64     `json:"df"`
	P         float64     `json:"p"`
	PAdjusted float64     `json:"p_adjusted"`
	MeanDiff  float64     `json:"mean_diff"`
	CILow     float64     `json:"ci_low"`
	CIHigh    float64     `json:"ci_high"`
	CohenD    float64     `json:"cohen_d"`
	Effect    EffectLabel `json:"effect"`
}

// Skip records a tracker the pipeline could not test, with the reason.
type Skip struct {
	Tracker string `json:"eye_tracker"`
	Reason  string `json:"reason"`
}

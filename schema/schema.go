// Package schema defines the domain types shared across the renorm tool.
package schema

// Direction identifies which variation of a systematic a yield belongs to.
type Direction string

// Directions for yield computations.
const (
	NominalDirection Direction = "nominal"
	UpDirection      Direction = "up"
	DownDirection    Direction = "down"
)

// SystematicKind distinguishes reweighted systematics from alternate-sample
// systematics.
type SystematicKind string

// Supported systematic kinds.
const (
	// WeightKind systematics reuse the nominal files with a modified weight.
	WeightKind SystematicKind = "weight"
	// SampleKind systematics scan an independent set of files per direction.
	SampleKind SystematicKind = "sample"
)

// ValidSystematicKinds is the allowed set for the config "type" key.
var ValidSystematicKinds = map[SystematicKind]bool{
	WeightKind: true,
	SampleKind: true,
}

// YieldResult records one weighted yield computation. Results live only for
// the duration of a run.
type YieldResult struct {
	Flavour     string
	Systematic  string // NominalName for the baseline computation
	Direction   Direction
	WeightedSum float64
	EventCount  int
}

// RenormRow is one output record: both systematic yields of a (flavour,
// systematic) pair next to the nominal yield, with the derived ratios.
type RenormRow struct {
	Flavour       string
	Systematic    string
	NominalYield  float64
	SystYieldUp   float64
	SystYieldDown float64
	RenormUp      float64
	RenormDown    float64
}

// Report is the full outcome of a run, in flavour-then-systematic config
// order.
type Report struct {
	Rows   []RenormRow
	Yields []YieldResult
}

package schema

// EventTreeName is the Parquet root schema name required of every sample
// file. It mirrors the single fixed tree the upstream ntuples are written
// with and is deliberately not configurable.
const EventTreeName = "events"

// SampleFileSuffix is appended to sample identifiers that omit it.
const SampleFileSuffix = ".parquet"

// NominalName labels the baseline computation in yield records.
const NominalName = "nominal"

// DefaultOutputFile is where the CSV table lands when -o is not given.
const DefaultOutputFile = "renormalisation.csv"

// CSVHeader is the fixed column set of the output table, shared by the
// terminal and CSV renderers.
var CSVHeader = []string{
	"Flavour",
	"Systematic",
	"Nominal yield",
	"Syst yield (up)",
	"Syst yield (down)",
	"Renorm. value (up)",
	"Renorm. value (down)",
}

package contract

import (
	"runtime"
	"strings"

	"github.com/hepworks/renorm/schema"
)

// DefaultPrecision is the decimal precision of numeric table columns.
const DefaultPrecision = 4

// DefaultWorkers is the default size of the flavour worker pool.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	ConfigPath  string   // Path to the analysis configuration document
	OutputFile  string   // Destination CSV path
	Flavours    []string // Restrict to these flavours (empty = all)
	Systematics []string // Restrict to these systematics (empty = all)
	Parallel    bool     // Fan flavours out over the worker pool
	Workers     int      // Worker pool size for parallel runs
	Precision   int      // Decimal precision for table columns
	Width       int      // Terminal width override (0 = auto-detect)
	UseColors   bool     // Colored renormalisation values in table output
}

// ConfigRawInput holds the raw inputs from flags and environment.
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ConfigPathStr string

	OutputFile      string   `mapstructure:"output_file"`
	Flavours        []string `mapstructure:"flavours"`
	Systematics     []string `mapstructure:"systematics"`
	Multiprocessing bool     `mapstructure:"multiprocessing"`
	Workers         int      `mapstructure:"workers"`
	Precision       int      `mapstructure:"precision"`
	Width           int      `mapstructure:"width"`
	Color           string   `mapstructure:"color"`
}

// ProcessAndValidate populates cfg from the raw input, applying defaults and
// rejecting inputs no run could honor.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.ConfigPathStr) == "" {
		return Configf("missing analysis configuration path")
	}
	cfg.ConfigPath = input.ConfigPathStr

	cfg.OutputFile = input.OutputFile
	if cfg.OutputFile == "" {
		cfg.OutputFile = schema.DefaultOutputFile
	}

	cfg.Flavours = trimNames(input.Flavours)
	cfg.Systematics = trimNames(input.Systematics)

	cfg.Parallel = input.Multiprocessing
	cfg.Workers = input.Workers
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	cfg.Precision = input.Precision
	if cfg.Precision <= 0 {
		cfg.Precision = DefaultPrecision
	}

	cfg.Width = input.Width
	cfg.UseColors = parseBoolish(input.Color)
	return nil
}

// ValidateFilters checks the requested flavour and systematic names against
// the analysis configuration, so typos fail before any file is opened.
func ValidateFilters(cfg *Config, ana *schema.AnalysisConfig) error {
	for _, name := range cfg.Flavours {
		if _, ok := ana.Flavour(name); !ok {
			return Configf("unknown flavour %q requested via --flavours", name)
		}
	}
	for _, name := range cfg.Systematics {
		found := false
		for i := range ana.Flavours {
			if _, ok := ana.Flavours[i].Systematic(name); ok {
				found = true
				break
			}
		}
		if !found {
			return Configf("unknown systematic %q requested via --systematics", name)
		}
	}
	return nil
}

func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// parseBoolish interprets yes/no style flag values.
func parseBoolish(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1", "on":
		return true
	}
	return false
}

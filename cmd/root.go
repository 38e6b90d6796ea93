package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hepworks/renorm/core"
	"github.com/hepworks/renorm/internal/contract"
	"github.com/hepworks/renorm/internal/expreval"
	"github.com/hepworks/renorm/internal/outwriter"
	"github.com/hepworks/renorm/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from flags and env.
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint. Running it computes yields and
// renormalisation factors for the given analysis configuration.
var rootCmd = &cobra.Command{
	Use:   "renorm <config.yaml>",
	Short: "Compute fiducial cross-section renormalisation factors for systematic variations.",
	Long: `Renorm computes weighted event yields per flavour component and systematic
variation from a YAML analysis configuration, then derives the up/down
renormalisation ratios against the nominal sample. Results land on the
terminal and in a CSV file.`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PreRunE:       sharedSetup,
	RunE:          runRenorm,
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("RENORM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Set defaults in Viper
	viper.SetDefault("output_file", schema.DefaultOutputFile)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals the resolved flag/env values and runs validation.
func sharedSetup(_ *cobra.Command, args []string) error {
	// 1. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 2. Handle the positional argument (which Viper doesn't do).
	if len(args) >= 1 {
		input.ConfigPathStr = args[0]
	}

	// 3. Run validation, populating the global 'cfg' from 'input'.
	return contract.ProcessAndValidate(cfg, input)
}

// runRenorm drives a full computation: load and validate the analysis
// configuration, compute every requested (flavour, systematic) pair, then
// render the table and CSV.
func runRenorm(_ *cobra.Command, _ []string) error {
	start := time.Now()

	ana, err := contract.LoadAnalysisConfig(cfg.ConfigPath)
	if err != nil {
		return err
	}
	if err := contract.ValidateFilters(cfg, ana); err != nil {
		return err
	}

	registry := expreval.NewSelectionRegistry(ana.ExtraSelections)
	report, err := core.Run(cfg, ana, expreval.New(), registry)
	if err != nil {
		return err
	}

	return outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

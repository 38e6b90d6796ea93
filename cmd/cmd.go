// Package cmd defines the command-line interface for renorm.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hepworks/renorm/internal/contract"
	"github.com/hepworks/renorm/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("output_file", "o", schema.DefaultOutputFile, "Destination CSV path")
	rootCmd.PersistentFlags().StringSlice("flavours", nil, "Restrict to the named flavours (default: all)")
	rootCmd.PersistentFlags().StringSlice("systematics", nil, "Restrict to the named systematics (default: all)")
	rootCmd.PersistentFlags().Bool("multiprocessing", false, "Compute flavours in parallel")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent flavour workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for table columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored renormalisation values (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}
}

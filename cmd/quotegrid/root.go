package main

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "quotegrid",
	Short: "Supplier quotation ingestion into a comparison spreadsheet",
	Long: `quotegrid reads supplier quotation documents (PDF, images, Word),
extracts their contents with Gemini, reconciles the products against the
comparison sheet's master list, and writes each supplier's prices into its
own column block.`,
	Version:      "1.0.0",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Package cmd holds the purchasepredict command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

var cfgFile string

// NewRootCmd returns the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "purchasepredict",
		Short:         "Customer purchase prediction service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ../config.yaml when present)")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newFeaturesCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// resolveConfigPath falls back to config.yaml in the working directory or
// its parent, so the binary can be started from cmd/ during development.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	for _, candidate := range []string{"config.yaml", "../config.yaml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	debug   bool
	noColor bool
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "rdbscan",
	Short: "Decode, migrate, inspect, and replicate Redis RDB snapshots",
	Long:  "rdbscan walks an RDB snapshot as a lazy stream of entries and can inspect, index, serve, or replicate what it finds.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			log.SetLevel(logrus.DebugLevel)
		}
		color.NoColor = noColor
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colorized output")
}

// Execute runs the CLI, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(errors.Cause(err)).Error(color.RedString("rdbscan failed"))
		os.Exit(1)
	}
}

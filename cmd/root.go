// Package cmd implements the statistical-simulation CLI: three Cobra
// subcommands (model, synth, dump) over the reuse/hrd/stm/mocktails
// modeling packages, in the same package-level-flag-vars-plus-init() style
// the teacher uses for its single run command.
package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var logFormat string

var rootCmd = &cobra.Command{
	Use:   "statistical-simulation",
	Short: "Build and synthesize memory-access-trace models (HRD, STM, Mocktails)",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLog(logFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: 'json' or 'console'")
}

func setupLog(format string) {
	if strings.ToLower(format) == "json" {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

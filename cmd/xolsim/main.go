package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "xolsim"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	// Pretty console output on a terminal, JSON lines when piped.
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Version: version,
		Short:   "Excess-of-loss reinsurance risk engine",
		Long: `xolsim estimates the risk transferred to a reinsurer under an
excess-of-loss treaty: Monte Carlo simulation over Poisson claim counts
and lognormal severities, reduced to tail risk metrics (VaR/TVaR) for a
baseline year and an inflation-stressed year.`,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

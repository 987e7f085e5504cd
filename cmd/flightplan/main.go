package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tripwise/flight-planner/internal/config"
	"github.com/tripwise/flight-planner/internal/database"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "flightplan",
	Short: "Operator tooling for the flight planner",
	Long: `Runs schedule backfills, validates trips and answers airport queries
against the flight planner database configured through the environment.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(backfillCmd, validateCmd, distanceCmd, nearbyCmd, tokenCmd, secretCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// connect loads configuration and opens the database
func connect() (*config.Config, *database.PostgresDB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

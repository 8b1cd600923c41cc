/*
main.go - mileage command-line entry point

PURPOSE:
  Loads a year of flight records into a fresh tracker, closes the year and
  then either answers interactive lookups, prints a report or serves the
  records over HTTP.

COMMANDS:
  lookup   Prompt for passenger ids on stdin ("-1" quits)
  report   Print every passenger record, or the year summary
  serve    Serve the records over the read-only HTTP API

CONFIGURATION:
  Flags override MILEAGE_* environment variables, which override the
  config file (--config, or ./mileage.yaml), which overrides defaults.
  See config/config.go for every key.

EXAMPLES:
  mileage lookup --input flight-data.txt
  mileage report --format json --db ./rewards.db
  cat flight-data.txt | mileage report --input - --summary
  mileage serve --http-addr :9090

SEE ALSO:
  - run.go: Shared ingest and export path
  - config/config.go: Configuration keys
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/warp/cancellation-rewards/config"
	"github.com/warp/cancellation-rewards/observability"
)

var version = "dev"

// app carries state shared by every subcommand once the root has run
// its PersistentPreRunE.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "mileage",
		Short: "Cancellation rewards tier engine",
		Long: `mileage tracks airline passengers through the cancellation rewards
ladder. It reads one flight record per line ("<id> <Y|N> [<Y|N>]"), applies
tier upgrades as cancellations accrue, runs the year-end promotion and then
answers lookups.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./mileage.yaml)")
	flags.String("input", "", `flight record file, "-" for stdin (default: flight-data.txt)`)
	flags.Bool("skip-malformed", false, "skip malformed records instead of stopping")
	flags.String("format", "", "output format (text, json, yaml)")
	flags.String("db", "", "SQLite file to export the year-end snapshot to")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")

	// Bind flags to viper
	_ = a.v.BindPFlag("input.path", flags.Lookup("input"))
	_ = a.v.BindPFlag("input.skip_malformed", flags.Lookup("skip-malformed"))
	_ = a.v.BindPFlag("output.format", flags.Lookup("format"))
	_ = a.v.BindPFlag("store.path", flags.Lookup("db"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	// Add commands
	rootCmd.AddCommand(lookupCmd(a))
	rootCmd.AddCommand(reportCmd(a))
	rootCmd.AddCommand(serveCmd(a))

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := observability.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.logger = logger.With(zap.String("cmd", "mileage"))
	return nil
}

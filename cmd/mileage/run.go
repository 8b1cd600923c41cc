package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/cancellation-rewards/ingest"
	"github.com/warp/cancellation-rewards/store/sqlite"
	"github.com/warp/cancellation-rewards/tracker"
)

// stdinPath selects standard input as the flight record source.
const stdinPath = "-"

var errStdinConflict = errors.New(`lookup reads passenger ids from stdin; --input "-" is not allowed`)

// loadYear ingests the configured flight log into a fresh tracker and
// closes the year. When store.path is set the result is also exported.
func (a *app) loadYear(cmd *cobra.Command) (*tracker.Tracker, ingest.Stats, error) {
	ctx := cmd.Context()
	path := a.cfg.Input.Path

	in, closeFn, err := openInput(cmd, path)
	if err != nil {
		return nil, ingest.Stats{}, err
	}
	defer closeFn()

	tr := tracker.New(tracker.WithLogger(a.logger))
	stats, err := ingest.Load(ctx, in, tr, ingest.Options{
		SkipMalformed: a.cfg.Input.SkipMalformed,
		Logger:        a.logger,
	})
	if err != nil {
		return nil, stats, fmt.Errorf("load %s: %w", path, err)
	}

	if a.cfg.Store.Path != "" {
		if err := a.export(ctx, path, tr, stats.YearEnd); err != nil {
			return nil, stats, err
		}
	}
	return tr, stats, nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == stdinPath {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open flight records: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func (a *app) export(ctx context.Context, source string, tr *tracker.Tracker, result tracker.YearEndResult) error {
	store, err := sqlite.New(a.cfg.Store.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.SaveYearEnd(ctx, source, result, tr.Records())
	if err != nil {
		return fmt.Errorf("export year end: %w", err)
	}
	a.logger.Info("year end exported",
		zap.String("run_id", run.ID),
		zap.String("db", a.cfg.Store.Path),
		zap.Int("passengers", run.Passengers),
	)
	return nil
}

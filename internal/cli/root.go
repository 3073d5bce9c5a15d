// Package cli implements analyticsctl, a local front end over a Badger state directory.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"example.com/fitanalytics/internal/analytics"
	"example.com/fitanalytics/internal/logger"
	"example.com/fitanalytics/internal/persistence"
	"example.com/fitanalytics/internal/persistence/badgerkv"
)

// Opener returns the state store for a state directory.
type Opener func(stateDir string, log *logger.Logger) (persistence.Store, error)

// OpenBadger opens an on-disk Badger store at stateDir.
func OpenBadger(stateDir string, log *logger.Logger) (persistence.Store, error) {
	return badgerkv.Open(badgerkv.Config{Path: stateDir, SyncWrites: true, Logger: log})
}

type options struct {
	stateDir string
	logMode  string
	timezone string
	open     Opener
	now      func() time.Time
}

// Option customises the command tree.
type Option func(*options)

// WithOpener swaps the store factory.
func WithOpener(open Opener) Option {
	return func(o *options) { o.open = open }
}

// WithClock fixes the service clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewRootCommand builds the analyticsctl command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	o := &options{open: OpenBadger, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	root := &cobra.Command{
		Use:           "analyticsctl",
		Short:         "Inspect and drive the fitness analytics state",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.stateDir, "state-dir", "./data/badger", "Badger state directory")
	root.PersistentFlags().StringVar(&o.logMode, "log-mode", "dev", "log mode (dev|prod)")
	root.PersistentFlags().StringVar(&o.timezone, "timezone", "UTC", "IANA zone used for time-of-day analysis")

	root.AddCommand(
		newImportCommand(o),
		newHistoryCommand(o),
		newPredictCommand(o),
		newPatternsCommand(o),
		newTrainCommand(o),
		newSummaryCommand(o),
		newPruneCommand(o),
	)
	return root
}

// session opens the state, runs fn against a loaded service and persists the result.
func (o *options) session(cmd *cobra.Command, cfg analytics.Config, fn func(context.Context, *analytics.Service) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logger.New(o.logMode)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", o.timezone, err)
	}
	cfg.Location = loc

	store, err := o.open(o.stateDir, log)
	if err != nil {
		return fmt.Errorf("open state %s: %w", o.stateDir, err)
	}
	defer store.Close()

	svc := analytics.NewService(store, cfg, analytics.WithLogger(log), analytics.WithClock(o.now))
	if err := svc.Load(ctx); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	result, runErr := fn(ctx, svc)
	if err := svc.Close(ctx); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if runErr != nil {
		return runErr
	}
	if result == nil {
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

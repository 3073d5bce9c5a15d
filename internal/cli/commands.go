package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"example.com/fitanalytics/internal/analytics"
	"example.com/fitanalytics/internal/domain"
)

// ImportResult reports what an import did.
type ImportResult struct {
	Imported int            `json:"imported"`
	Skipped  []SkippedEntry `json:"skipped"`
}

// SkippedEntry names a record that was not imported and why.
type SkippedEntry struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

func newImportCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append workout records from a JSON array file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var recs []domain.WorkoutRecord
			if err := json.Unmarshal(raw, &recs); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			return o.session(cmd, analytics.DefaultConfig(), func(ctx context.Context, svc *analytics.Service) (any, error) {
				res := ImportResult{Skipped: []SkippedEntry{}}
				for i, rec := range recs {
					if _, err := svc.AddWorkoutData(ctx, rec); err != nil {
						if domain.IsValidationError(err) || errors.Is(err, domain.ErrDuplicateRecord) {
							res.Skipped = append(res.Skipped, SkippedEntry{Index: i, ID: rec.ID, Reason: err.Error()})
							continue
						}
						return nil, err
					}
					res.Imported++
				}
				return res, nil
			})
		},
	}
}

func newHistoryCommand(o *options) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List workouts from the last N days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.session(cmd, analytics.DefaultConfig(), func(_ context.Context, svc *analytics.Service) (any, error) {
				return svc.GetWorkoutHistory(days), nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "window size in days")
	return cmd
}

func newPredictCommand(o *options) *cobra.Command {
	var (
		workoutType string
		intensity   int
	)
	cmd := &cobra.Command{
		Use:   "predict <kind>",
		Short: "Run a predictor (performance, injury-risk, optimal-time, nutrition, recovery)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.PredictionKind(strings.ReplaceAll(args[0], "-", "_"))
			return o.session(cmd, analytics.DefaultConfig(), func(_ context.Context, svc *analytics.Service) (any, error) {
				if kind == domain.KindNutrition {
					return svc.PredictNutrition(domain.ActivityType(workoutType), intensity)
				}
				return svc.Predict(kind)
			})
		},
	}
	cmd.Flags().StringVar(&workoutType, "workout-type", string(domain.ActivityStrength), "planned activity type for nutrition")
	cmd.Flags().IntVar(&intensity, "intensity", 5, "planned intensity (1-10) for nutrition")
	return cmd
}

func newPatternsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Analyze the last 60 days for lifestyle patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.session(cmd, analytics.DefaultConfig(), func(ctx context.Context, svc *analytics.Service) (any, error) {
				return svc.AnalyzeUserPatterns(ctx), nil
			})
		},
	}
}

func newTrainCommand(o *options) *cobra.Command {
	var duration, timeout time.Duration
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run a model retrain pass and print the summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := analytics.DefaultConfig()
			cfg.TrainingDuration = duration
			cfg.TrainingTimeout = timeout
			return o.session(cmd, cfg, func(ctx context.Context, svc *analytics.Service) (any, error) {
				if err := svc.TrainModels(ctx); err != nil {
					return nil, err
				}
				return svc.GetAnalyticsSummary(), nil
			})
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", analytics.DefaultConfig().TrainingDuration, "simulated training time")
	cmd.Flags().DurationVar(&timeout, "timeout", analytics.DefaultConfig().TrainingTimeout, "abandon training after this long")
	return cmd
}

func newSummaryCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print model and data counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.session(cmd, analytics.DefaultConfig(), func(_ context.Context, svc *analytics.Service) (any, error) {
				return svc.GetAnalyticsSummary(), nil
			})
		},
	}
}

// PruneResult reports how many records a prune removed.
type PruneResult struct {
	Removed    int `json:"removed"`
	MaxAgeDays int `json:"max_age_days"`
}

func newPruneCommand(o *options) *cobra.Command {
	var maxAgeDays int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop workouts older than --max-age-days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxAgeDays <= 0 {
				return fmt.Errorf("--max-age-days must be positive")
			}
			return o.session(cmd, analytics.DefaultConfig(), func(ctx context.Context, svc *analytics.Service) (any, error) {
				return PruneResult{Removed: svc.Prune(ctx, maxAgeDays), MaxAgeDays: maxAgeDays}, nil
			})
		},
	}
	cmd.Flags().IntVar(&maxAgeDays, "max-age-days", 365, "keep records newer than this many days")
	return cmd
}

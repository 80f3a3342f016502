package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/pitwall/f1-stats/internal/app"
	"github.com/pitwall/f1-stats/internal/config"
	"github.com/pitwall/f1-stats/internal/domain/etlrun"
	"github.com/pitwall/f1-stats/internal/observability"
	"github.com/pitwall/f1-stats/internal/platform/logging"
	"github.com/pitwall/f1-stats/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, flushLogs, err := observability.InitBetterStackLogger(cfg, nil)
	if err != nil {
		panic(err)
	}
	logging.SetDefault(logger)

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	cmdErr := newRootCommand(cfg, logger).ExecuteContext(ctx)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
		logger.Warn("stop pprof", "error", err)
	}
	if err := stopPyroscope(); err != nil {
		logger.Warn("stop pyroscope", "error", err)
	}
	if err := shutdownUptrace(shutdownCtx); err != nil {
		logger.Warn("shutdown uptrace", "error", err)
	}
	if err := flushLogs(shutdownCtx); err != nil {
		logger.Warn("flush logs", "error", err)
	}

	if cmdErr != nil {
		logger.Error("command failed", "error", cmdErr)
		os.Exit(1)
	}
}

func newRootCommand(cfg config.Config, logger *logging.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "f1stats",
		Short:         "Formula 1 season statistics ETL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newETLCommand(cfg, logger))
	root.AddCommand(newRunsCommand(cfg, logger))
	root.AddCommand(newCompareCommand(cfg, logger))

	return root
}

func newETLCommand(cfg config.Config, logger *logging.Logger) *cobra.Command {
	var saveRaw bool
	var workers int

	etlCmd := &cobra.Command{
		Use:   "etl",
		Short: "Run the extract, transform, load pipeline",
	}
	etlCmd.PersistentFlags().BoolVar(&saveRaw, "save-raw", cfg.ETLSaveRawPayloads, "archive raw upstream payloads")
	etlCmd.PersistentFlags().IntVar(&workers, "workers", cfg.ETLMaxWorkers, "parallel race units per season")

	runWith := func(cmd *cobra.Command, mode usecase.RunMode) error {
		runCfg := cfg
		runCfg.ETLSaveRawPayloads = saveRaw
		runCfg.ETLMaxWorkers = workers

		return runPipeline(cmd.Context(), runCfg, logger, mode)
	}

	seasonCmd := &cobra.Command{
		Use:   "season year [year...]",
		Short: "Process specific seasons",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			years, err := parseYears(args)
			if err != nil {
				return err
			}

			return runWith(cmd, usecase.SeasonMode{Years: years})
		},
	}

	incrementalCmd := &cobra.Command{
		Use:   "incremental",
		Short: "Process the season currently in progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, usecase.IncrementalMode{})
		},
	}

	backfillCmd := &cobra.Command{
		Use:   "backfill",
		Short: "Process every season from the configured floor to the current year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, usecase.BackfillMode{})
		},
	}

	etlCmd.AddCommand(seasonCmd, incrementalCmd, backfillCmd)

	return etlCmd
}

func newRunsCommand(cfg config.Config, logger *logging.Logger) *cobra.Command {
	var limit int

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent pipeline runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, logger, func(ctx context.Context, a *app.App) error {
				runs, err := a.Runs.ListRecent(ctx, limit)
				if err != nil {
					return err
				}

				for _, run := range runs {
					finished := "-"
					if run.FinishedAt != nil {
						finished = run.FinishedAt.UTC().Format(time.RFC3339)
					}
					fmt.Printf("%s  %-11s  %-7s  units=%d ok=%d failed=%d  started=%s finished=%s\n",
						run.ID,
						run.Mode,
						run.Status,
						run.UnitsTotal,
						run.UnitsSucceeded,
						run.UnitsFailed,
						run.StartedAt.UTC().Format(time.RFC3339),
						finished,
					)
				}

				return nil
			})
		},
	}
	runsCmd.Flags().IntVar(&limit, "limit", 10, "maximum runs to list")

	return runsCmd
}

func newCompareCommand(cfg config.Config, logger *logging.Logger) *cobra.Command {
	var seasons []int

	compareCmd := &cobra.Command{
		Use:   "compare driver|constructor refA refB",
		Short: "Head-to-head totals for two drivers or two constructors",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := strings.ToLower(strings.TrimSpace(args[0]))

			return withApp(cmd.Context(), cfg, logger, func(ctx context.Context, a *app.App) error {
				comparison, err := a.Metrics.Compare(ctx, kind, args[1], args[2], seasons)
				if err != nil {
					return err
				}

				return printJSON(comparison)
			})
		},
	}
	compareCmd.Flags().IntSliceVar(&seasons, "seasons", nil, "season years to compare")
	_ = compareCmd.MarkFlagRequired("seasons")

	return compareCmd
}

func runPipeline(ctx context.Context, cfg config.Config, logger *logging.Logger, mode usecase.RunMode) error {
	return withApp(ctx, cfg, logger, func(ctx context.Context, a *app.App) error {
		res, runErr := a.Pipeline.Run(ctx, mode)
		if res.RunID != "" {
			if err := printJSON(res); err != nil {
				logger.Warn("print run result", "error", err)
			}
		}
		if runErr != nil {
			return runErr
		}
		if res.Status == etlrun.StatusFailed {
			return fmt.Errorf("run %s finished %s: %d of %d units failed", res.RunID, res.Status, res.UnitsFailed, res.UnitsTotal)
		}

		return nil
	})
}

func withApp(ctx context.Context, cfg config.Config, logger *logging.Logger, fn func(context.Context, *app.App) error) error {
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	return fn(ctx, a)
}

func parseYears(args []string) ([]int, error) {
	years := make([]int, 0, len(args))
	for _, arg := range args {
		year, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("invalid season year %q", arg)
		}
		years = append(years, year)
	}

	return years, nil
}

func printJSON(v any) error {
	out, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))

	return nil
}

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"uclevr/internal/config"
	"uclevr/internal/evaluator"
	"uclevr/internal/report"
	"uclevr/internal/results"
	"uclevr/internal/ui/progress"
)

const configNotFoundMessage = "Config file not found! Please provide a valid config file path."

// evalMode selects what the eval command computes.
type evalMode int

const (
	modeEvaluate evalMode = iota
	modeGroundTruth
	modeStats
)

// runEval builds the handler for the eval command.
func runEval(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file (default: search for .uclevr/config.yml)")
		noEvaluate := fs.Bool("no-evaluate", false, "Only build and persist ground truth")
		statsOnly := fs.Bool("stats-only", false, "Only compute ground truth statistics")
		reportPath := fs.String("report", "", "Write an HTML report to this path")
		uiMode := fs.String("ui", "auto", "Progress UI mode: auto|live|plain")
		noColor := fs.Bool("no-color", false, "Disable ANSI colors")
		verbose := fs.Bool("verbose", false, "Verbose logging")
		logPath := fs.String("log", "", "Write logs to a file")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if *noEvaluate && *statsOnly {
			fmt.Fprintln(stderr, "--no-evaluate and --stats-only are mutually exclusive")
			return ExitUsage
		}
		mode := modeEvaluate
		switch {
		case *noEvaluate:
			mode = modeGroundTruth
		case *statsOnly:
			mode = modeStats
		}

		decision, err := resolveUIMode(*uiMode, *verbose, stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		resolved, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintln(stderr, configNotFoundMessage)
			return ExitError
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				fmt.Fprintln(stderr, configNotFoundMessage)
			} else {
				fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			}
			return ExitError
		}

		logSink, closeLog, err := openLogSink(*logPath, decision.useLive, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open log file: %v\n", err)
			return ExitError
		}
		defer closeLog()
		logger := newLogger(logSink, *verbose)

		var observer evaluator.Observer = newPlainObserver(stdout)
		var controller *progress.Controller
		if decision.useLive {
			controller = progress.Start(stdout, progress.Options{NoColor: *noColor})
			observer = controller
		}
		stopUI := func() {
			controller.Close()
			controller.Wait()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ev, err := evaluator.New(cfg, evaluator.WithLogger(logger), evaluator.WithObserver(observer))
		if err != nil {
			stopUI()
			fmt.Fprintf(stderr, "Eval failed: %v\n", err)
			return ExitError
		}

		var summary evaluator.Summary
		switch mode {
		case modeGroundTruth:
			summary, err = ev.ComputeAll(ctx)
		case modeStats:
			summary, err = ev.ComputeStats(ctx)
		default:
			summary, err = ev.Evaluate(ctx)
		}
		stopUI()
		if errors.Is(err, evaluator.ErrAlreadyComputed) {
			fmt.Fprintf(stderr, "Existing ground truth found at %s, exiting...\n", ev.GroundTruthPath())
			return ExitError
		}
		if err != nil {
			fmt.Fprintf(stderr, "Eval failed: %v\n", err)
			return ExitError
		}

		if err := ev.Save(); err != nil {
			fmt.Fprintf(stderr, "Failed to save ground truth: %v\n", err)
			return ExitError
		}

		runID := ""
		if mode == modeEvaluate && cfg.ResultsDB != "" {
			runID, err = recordRun(ctx, cfg, summary)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to record results: %v\n", err)
				return ExitError
			}
			logger.Info("recorded run", "run_id", runID, "path", cfg.ResultsDB)
		}

		printSummary(stdout, mode, cfg, ev, summary)

		if strings.TrimSpace(*reportPath) != "" {
			data := report.Data{
				Title:      "uclevr evaluation",
				ConfigPath: cfg.Path,
				RunID:      runID,
				Summary:    summary,
			}
			if err := report.WriteFile(ctx, *reportPath, data); err != nil {
				fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
				return ExitError
			}
			fmt.Fprintf(stdout, "Report: %s\n", *reportPath)
		}
		return ExitOK
	}
}

// recordRun appends the run to the configured results database.
func recordRun(ctx context.Context, cfg config.Config, summary evaluator.Summary) (string, error) {
	store, err := results.Open(ctx, cfg.ResultsDB)
	if err != nil {
		return "", err
	}
	defer func() { _ = store.Close() }()
	return store.RecordRun(ctx, results.Run{
		ConfigPath: cfg.Path,
		Filters:    cfg.Filters,
		TargetAll:  cfg.TargetAll,
		Summary:    summary,
	})
}

func printSummary(w io.Writer, mode evalMode, cfg config.Config, ev *evaluator.Evaluator, summary evaluator.Summary) {
	switch mode {
	case modeGroundTruth:
		fmt.Fprintf(w, "Ground truth computed for %d questions (%d skipped)\n", summary.Completed, summary.SkippedTotal())
		fmt.Fprintf(w, "Ground truth: %s\n", ev.GroundTruthPath())
	case modeStats:
		fmt.Fprintf(w, "Mean target objects: %.4f\n", summary.MeanTargetObjects)
		fmt.Fprintf(w, "Mean mask fraction: %.4f\n", summary.MeanMaskFraction)
		fmt.Fprintf(w, "Stats: %s\n", cfg.Store().DefaultStatsPath())
	default:
		fmt.Fprintf(w, "Overall accuracy: %s\n", formatAccuracy(summary))
	}
}

func formatAccuracy(summary evaluator.Summary) string {
	if !summary.Computed {
		return "not computed"
	}
	return fmt.Sprintf("%g", summary.Accuracy)
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"pitasks/internal/report"
	"pitasks/internal/tasktree"
	"pitasks/internal/trace"
)

type CLIResult struct {
	ExitCode int
	Result   *tasktree.RunResult

	// RunID is set when a report was written.
	RunID string
	// TraceHash is set when a trace was written.
	TraceHash string
}

// Execute runs one validated invocation and writes the summary to stdout.
// Nothing is written to stdout unless the whole run, artifacts included,
// succeeded.
func Execute(ctx context.Context, inv Invocation, stdout io.Writer, logger *logrus.Logger) (CLIResult, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	log := logger.WithField("component", "cli")

	opts := []tasktree.Option{tasktree.WithLogger(logger)}

	var recorder *trace.Recorder
	if inv.TracePath != "" {
		recorder = trace.NewRecorder()
		opts = append(opts, tasktree.WithObserver(recorder))
	}

	var registry *prometheus.Registry
	if inv.MetricsFile != "" {
		registry = prometheus.NewRegistry()
		m, err := tasktree.NewMetrics(registry)
		if err != nil {
			return CLIResult{ExitCode: ExitInternalError}, fmt.Errorf("register metrics: %w", err)
		}
		opts = append(opts, tasktree.WithMetrics(m))
	}

	engine, err := tasktree.NewEngine(inv.Config, opts...)
	if err != nil {
		return CLIResult{ExitCode: ExitCode(err)}, err
	}

	startedAt := time.Now()
	res, err := engine.Run(ctx)
	if err != nil {
		return CLIResult{ExitCode: ExitInternalError}, fmt.Errorf("run task tree: %w", err)
	}
	out := CLIResult{ExitCode: ExitSuccess, Result: res}

	if recorder != nil {
		tr := recorder.Trace(engine.Config().Hash())
		hash, err := tr.Hash()
		if err != nil {
			return CLIResult{ExitCode: ExitInternalError, Result: res}, fmt.Errorf("hash trace: %w", err)
		}
		if err := tr.WriteFile(inv.TracePath); err != nil {
			return CLIResult{ExitCode: ExitInternalError, Result: res}, fmt.Errorf("write trace: %w", err)
		}
		out.TraceHash = hash
		log.WithFields(logrus.Fields{"path": inv.TracePath, "hash": hash}).Info("trace written")
	}

	if registry != nil {
		if err := os.MkdirAll(filepath.Dir(inv.MetricsFile), 0o755); err != nil {
			return CLIResult{ExitCode: ExitInternalError, Result: res}, fmt.Errorf("write metrics: %w", err)
		}
		if err := prometheus.WriteToTextfile(inv.MetricsFile, registry); err != nil {
			return CLIResult{ExitCode: ExitInternalError, Result: res}, fmt.Errorf("write metrics: %w", err)
		}
		log.WithField("path", inv.MetricsFile).Info("metrics written")
	}

	if inv.ReportDir != "" {
		store, err := report.NewStore(inv.ReportDir)
		if err != nil {
			return CLIResult{ExitCode: ExitInternalError, Result: res}, fmt.Errorf("open report store: %w", err)
		}
		rep := report.New(report.NewRunID(), startedAt, engine.Config(), res)
		rep.TraceHash = out.TraceHash
		if err := store.Save(rep); err != nil {
			return CLIResult{ExitCode: ExitInternalError, Result: res}, fmt.Errorf("save report: %w", err)
		}
		out.RunID = rep.RunID
		log.WithFields(logrus.Fields{"run_id": rep.RunID, "path": store.ReportPath(rep.RunID)}).Info("report saved")
	}

	if err := writeSummary(stdout, res); err != nil {
		return CLIResult{ExitCode: ExitInternalError, Result: res}, fmt.Errorf("write summary: %w", err)
	}
	return out, nil
}

func writeSummary(w io.Writer, res *tasktree.RunResult) error {
	if _, err := fmt.Fprintf(w, "Average pi: %.10f\n", res.Average); err != nil {
		return err
	}
	for i, n := range res.WorkerCounts {
		if _, err := fmt.Fprintf(w, "Thread %d computed %d tasks\n", i, n); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Execution took %.4f s\n", res.Elapsed.Seconds())
	return err
}

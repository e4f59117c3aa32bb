package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pitasks/internal/tasktree"
)

// Report is the persisted summary of one run.
type Report struct {
	RunID      string          `yaml:"run_id"`
	StartedAt  time.Time       `yaml:"started_at"`
	ConfigHash string          `yaml:"config_hash"`
	Config     tasktree.Config `yaml:"config"`

	Average      float64 `yaml:"average"`
	TotalPi      float64 `yaml:"total_pi"`
	Admitted     int64   `yaml:"admitted"`
	Admissions   int64   `yaml:"admissions"`
	Rejected     int64   `yaml:"rejected"`
	Failed       int64   `yaml:"failed"`
	WorkerCounts []int64 `yaml:"worker_counts"`

	ElapsedSeconds float64 `yaml:"elapsed_seconds"`
	TraceHash      string  `yaml:"trace_hash,omitempty"`
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// New builds a report from a finished run.
func New(runID string, startedAt time.Time, cfg tasktree.Config, res *tasktree.RunResult) Report {
	r := Report{
		RunID:      runID,
		StartedAt:  startedAt.UTC(),
		ConfigHash: cfg.Hash(),
		Config:     cfg,
	}
	if res == nil {
		return r
	}
	r.Average = res.Average
	r.TotalPi = res.TotalPi
	r.Admitted = res.AdmittedTotal
	r.Admissions = res.Admissions
	r.Rejected = res.Rejected
	r.Failed = res.Failed
	r.WorkerCounts = append([]int64(nil), res.WorkerCounts...)
	r.ElapsedSeconds = res.Elapsed.Seconds()
	return r
}

func (r Report) Validate() error {
	var errs []error
	if strings.TrimSpace(r.RunID) == "" {
		errs = append(errs, errors.New("run_id is required"))
	} else if strings.ContainsAny(r.RunID, `/\`) {
		errs = append(errs, fmt.Errorf("run_id %q must not contain path separators", r.RunID))
	}
	if r.StartedAt.IsZero() {
		errs = append(errs, errors.New("started_at is required"))
	}
	if strings.TrimSpace(r.ConfigHash) == "" {
		errs = append(errs, errors.New("config_hash is required"))
	}
	if err := r.Config.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	if len(r.WorkerCounts) != r.Config.Workers {
		errs = append(errs, fmt.Errorf("worker_counts has %d entries, want %d", len(r.WorkerCounts), r.Config.Workers))
	}
	var counted int64
	for _, c := range r.WorkerCounts {
		counted += c
	}
	if counted != r.Admitted {
		errs = append(errs, fmt.Errorf("worker_counts sum to %d, want admitted %d", counted, r.Admitted))
	}
	if r.Admitted+r.Rejected+r.Failed != r.Admissions {
		errs = append(errs, fmt.Errorf("admitted+rejected+failed = %d, want admissions %d", r.Admitted+r.Rejected+r.Failed, r.Admissions))
	}
	if r.ElapsedSeconds < 0 {
		errs = append(errs, errors.New("elapsed_seconds must be >= 0"))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pitasks/internal/core"
	"pitasks/internal/tasktree"
)

const (
	ExitSuccess           = 0
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

// positionalNames lists the required positional parameters, in order.
var positionalNames = []string{"num_tasks", "num_threads", "lower", "upper", "seed"}

// Invocation is the fully parsed description of a run. Config is parsed but
// not yet validated; validation happens once, when the engine is built.
type Invocation struct {
	Config tasktree.Config

	LogLevel    string
	TracePath   string
	ReportDir   string
	MetricsFile string
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

func configErrorf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitConfigError, Message: fmt.Sprintf(format, args...)}
}

// ParsePositional parses `num_tasks num_threads lower upper seed` into a
// run configuration.
func ParsePositional(args []string) (tasktree.Config, error) {
	if len(args) != len(positionalNames) {
		return tasktree.Config{}, invalidInvocationf(
			"expected %d arguments (%s), got %d",
			len(positionalNames), strings.Join(positionalNames, " "), len(args))
	}

	budget, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return tasktree.Config{}, invalidInvocationf("num_tasks: %v", numError(err))
	}
	workers, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return tasktree.Config{}, invalidInvocationf("num_threads: %v", numError(err))
	}
	lower, err := strconv.ParseUint(strings.TrimSpace(args[2]), 10, 64)
	if err != nil {
		return tasktree.Config{}, invalidInvocationf("lower: %v", numError(err))
	}
	upper, err := strconv.ParseUint(strings.TrimSpace(args[3]), 10, 64)
	if err != nil {
		return tasktree.Config{}, invalidInvocationf("upper: %v", numError(err))
	}
	seed, err := core.ParseTaskSeed(strings.TrimSpace(args[4]))
	if err != nil {
		return tasktree.Config{}, invalidInvocationf("seed: %v", numError(err))
	}

	return tasktree.Config{
		Budget:  budget,
		Workers: workers,
		Lower:   lower,
		Upper:   upper,
		Seed:    seed,
	}, nil
}

// numError drops strconv's function prefix.
func numError(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return fmt.Errorf("%q: %w", numErr.Num, numErr.Err)
	}
	return err
}

// ExitCode maps an error returned by Run or Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if errors.Is(err, tasktree.ErrInvalidConfig) {
		return ExitConfigError
	}
	return ExitInternalError
}

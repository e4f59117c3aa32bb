package tasktree

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("invalid run configuration")
	ErrTaskFailed    = errors.New("task failed")
)

// ConfigError wraps run configuration validation failures.
type ConfigError struct {
	Kind error
	Msg  string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &ConfigError{Kind: ErrInvalidConfig, Msg: fmt.Sprintf(format, args...)}
}

package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitasks/internal/core"
	"pitasks/internal/tasktree"
)

func TestParsePositional(t *testing.T) {
	cfg, err := ParsePositional([]string{"100", "4", "10", "1000", "42"})
	require.NoError(t, err)
	assert.Equal(t, tasktree.Config{Budget: 100, Workers: 4, Lower: 10, Upper: 1000, Seed: core.TaskSeed(42)}, cfg)
}

func TestParsePositional_DoesNotValidate(t *testing.T) {
	cfg, err := ParsePositional([]string{"0", "1", "20", "10", "1"})
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), tasktree.ErrInvalidConfig)
}

func TestParsePositional_Errors(t *testing.T) {
	cases := map[string][]string{
		"too few":          {"1", "1", "10", "20"},
		"too many":         {"1", "1", "10", "20", "1", "9"},
		"none":             nil,
		"budget not int":   {"ten", "1", "10", "20", "1"},
		"workers not int":  {"1", "1.5", "10", "20", "1"},
		"negative lower":   {"1", "1", "-1", "20", "1"},
		"upper overflow":   {"1", "1", "10", "18446744073709551616", "1"},
		"seed not decimal": {"1", "1", "10", "20", "0x2a"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePositional(args)
			require.Error(t, err)
			var invErr *InvocationError
			require.ErrorAs(t, err, &invErr)
			assert.Equal(t, ExitInvalidInvocation, invErr.ExitCode)
			assert.Equal(t, ExitInvalidInvocation, ExitCode(err))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitInternalError, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitInvalidInvocation, ExitCode(&InvocationError{Message: "no code"}))
	assert.Equal(t, ExitConfigError, ExitCode(configErrorf("bad file")))

	cfgErr := tasktree.Config{Budget: 1, Workers: 0, Lower: 1, Upper: 2}.Validate()
	require.Error(t, cfgErr)
	assert.Equal(t, ExitConfigError, ExitCode(cfgErr))
	assert.Equal(t, ExitConfigError, ExitCode(fmt.Errorf("wrapped: %w", cfgErr)))
}

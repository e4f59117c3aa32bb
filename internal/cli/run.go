package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every flag name (upper-cased, dashes become
// underscores) to form its environment variable.
const envPrefix = "PITASKS"

const (
	keyConfig      = "config"
	keyLogLevel    = "log-level"
	keyTrace       = "trace"
	keyReportDir   = "report-dir"
	keyMetricsFile = "metrics-file"
)

// Run is a high-level CLI entrypoint suitable for black-box tests.
// It accepts the argument slice (excluding argv[0]) and returns the semantic
// exit code plus any error. Only the run summary is written to stdout; logs
// go to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) (CLIResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var result CLIResult
	cmd := newRootCommand(stdout, stderr, &result)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if result.ExitCode == ExitSuccess {
			result.ExitCode = ExitCode(err)
		}
		return result, err
	}
	return result, nil
}

func newRootCommand(stdout, stderr io.Writer, result *CLIResult) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "pitasks [flags] num_tasks num_threads lower upper seed",
		Short: "Estimate pi with a bounded tree of parallel tasks",
		Long: `pitasks spawns a tree of at most num_tasks tasks on num_threads workers.
Each task integrates 4/(1+x^2) over [0,1] at a precision drawn from
[lower, upper) and the estimates are averaged.

Flags may also be set with PITASKS_<FLAG> environment variables
(for example PITASKS_LOG_LEVEL=debug) or in a YAML file given by --config.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := buildInvocation(v, args)
			if err != nil {
				return err
			}
			logger, err := newLogger(inv.LogLevel, stderr)
			if err != nil {
				return err
			}
			res, err := Execute(cmd.Context(), inv, stdout, logger)
			*result = res
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return invalidInvocationf("%v", err)
	})

	flags := cmd.Flags()
	flags.String(keyConfig, "", "YAML file providing defaults for the flags below")
	flags.String(keyLogLevel, defaultLogLevel, "log level: trace|debug|info|warn|error")
	flags.String(keyTrace, "", "write the canonical task trace (JSON) to this path")
	flags.String(keyReportDir, "", "persist a run report under <dir>/runs/<run-id>/report.yaml")
	flags.String(keyMetricsFile, "", "write run metrics in Prometheus text format to this path")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

// buildInvocation merges positional arguments with flag, environment and
// config file settings. Flags win over the environment, which wins over the
// config file.
func buildInvocation(v *viper.Viper, args []string) (Invocation, error) {
	cfg, err := ParsePositional(args)
	if err != nil {
		return Invocation{}, err
	}

	if path := strings.TrimSpace(v.GetString(keyConfig)); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Invocation{}, configErrorf("read config %s: %v", path, err)
		}
		if err := checkConfigKeys(v.AllKeys()); err != nil {
			return Invocation{}, err
		}
	}

	return Invocation{
		Config:      cfg,
		LogLevel:    v.GetString(keyLogLevel),
		TracePath:   strings.TrimSpace(v.GetString(keyTrace)),
		ReportDir:   strings.TrimSpace(v.GetString(keyReportDir)),
		MetricsFile: strings.TrimSpace(v.GetString(keyMetricsFile)),
	}, nil
}

func checkConfigKeys(keys []string) error {
	for _, k := range keys {
		switch k {
		case keyLogLevel, keyTrace, keyReportDir, keyMetricsFile, keyConfig:
		default:
			return configErrorf("unknown config key %q", k)
		}
	}
	return nil
}

// Usage renders a one-line reminder of the expected invocation.
func Usage() string {
	return fmt.Sprintf("usage: pitasks [flags] %s", strings.Join(positionalNames, " "))
}

package cli

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

const defaultLogLevel = "warn"

// newLogger builds the process logger. Logs go to w (stderr) so stdout carries
// only the run summary.
func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	if strings.TrimSpace(level) == "" {
		level = defaultLogLevel
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, invalidInvocationf("--log-level: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	})
	return logger, nil
}

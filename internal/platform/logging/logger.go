package logging

import (
	"fmt"
	"io"
	"strings"

	runtime "github.com/banzaicloud/logrus-runtime-formatter"
	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger.
// Text output carries the calling file and line; json output is flat.
func Setup(level, format string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("logging setup: %w", err)
	}

	formatter, err := newFormatter(format)
	if err != nil {
		return fmt.Errorf("logging setup: %w", err)
	}

	logrus.SetLevel(lvl)
	logrus.SetFormatter(formatter)
	if out != nil {
		logrus.SetOutput(out)
	}

	return nil
}

func newFormatter(format string) (logrus.Formatter, error) {
	switch format {
	case "", "text":
		return &runtime.Formatter{
			ChildFormatter: &logrus.TextFormatter{
				FullTimestamp: true,
			},
			Line:         true,
			File:         true,
			BaseNameOnly: true,
		}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

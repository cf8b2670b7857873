package obs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestTimeLogsRunIDAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.StandardLogger()
	prevOut, prevLevel, prevFmt := logger.Out, logger.Level, logger.Formatter
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	defer func() {
		logger.SetOutput(prevOut)
		logger.SetLevel(prevLevel)
		logger.SetFormatter(prevFmt)
	}()

	ctx := WithRunID(context.Background(), "run-1")

	err := errors.New("boom")
	Time(ctx, "baidu.Lookup")(&err)

	out := buf.String()
	for _, want := range []string{"run_id=run-1", "op=baidu.Lookup", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

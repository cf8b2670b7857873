package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetupText(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup("debug", "text", &buf); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	t.Cleanup(func() { _ = Setup("info", "text", nil) })

	logrus.WithField("office", "changning").Debug("routed")

	out := buf.String()
	if !strings.Contains(out, "office=changning") {
		t.Fatalf("text output missing field: %q", out)
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Fatalf("text output missing caller file: %q", out)
	}
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup("info", "json", &buf); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	t.Cleanup(func() { _ = Setup("info", "text", nil) })

	logrus.WithField("person", "a").Info("geocoded")
	logrus.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if entry["person"] != "a" || entry["msg"] != "geocoded" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestSetupRejectsBadInput(t *testing.T) {
	if err := Setup("loud", "text", nil); err == nil {
		t.Error("Setup() expected error for unknown level")
	}
	if err := Setup("info", "xml", nil); err == nil {
		t.Error("Setup() expected error for unknown format")
	}
}

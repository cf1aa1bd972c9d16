package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSetVerbose(t *testing.T) {
	original := logger.GetLevel()
	defer logger.SetLevel(original)

	SetVerbose(true)
	if logger.GetLevel() != log.DebugLevel {
		t.Errorf("SetVerbose(true) level = %v, want debug", logger.GetLevel())
	}

	SetVerbose(false)
	if logger.GetLevel() != log.InfoLevel {
		t.Errorf("SetVerbose(false) level = %v, want info", logger.GetLevel())
	}
}

func TestDebugSuppressedUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbose(false)

	SetVerbose(false)
	Debug("hidden line")
	if strings.Contains(buf.String(), "hidden line") {
		t.Errorf("debug line written at info level: %q", buf.String())
	}

	SetVerbose(true)
	Debug("visible line", "turns", 3)
	out := buf.String()
	if !strings.Contains(out, "visible line") {
		t.Errorf("debug line missing at debug level: %q", out)
	}
	if !strings.Contains(out, "turns=3") {
		t.Errorf("key/value pair missing: %q", out)
	}
}

func TestLogFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Error("test error message")
	Warn("test warning message")
	Info("test info message")
	With("component", "test").Info("child message")

	out := buf.String()
	for _, want := range []string{"test error message", "test warning message", "test info message", "component=test"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "booklydesk.log")
	closer, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer SetOutput(os.Stderr)

	Info("written to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file content = %q", string(data))
	}
}

package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Rorical/BooklyDesk/internal/models"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		SessionID:  "web-session",
		ExportedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Turns: []models.Turn{
			models.GreetingTurn(),
			models.NewUserTurn("Where is my order B-1002?"),
			models.NewAssistantTurn("Let me check that.", models.ActionMetadata{
				Action:   models.ActionCallTool,
				ToolName: "order_lookup",
			}),
			models.NewUserTurn("I want a **refund**"),
			models.ErrorTurn(),
		},
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr bool
	}{
		{format: "jsonl", wantExt: "jsonl"},
		{format: "md", wantExt: "md"},
		{format: "markdown", wantExt: "md"},
		{format: "yaml", wantExt: "yaml"},
		{format: "yml", wantExt: "yaml"},
		{format: "json", wantExt: "json"},
		{format: "xml", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewExporter(%q) error = nil", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewExporter(%q) error = %v", tt.format, err)
			}
			if exporter.Extension() != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", exporter.Extension(), tt.wantExt)
			}
		})
	}
}

func TestJSONExporter(t *testing.T) {
	snapshot := sampleSnapshot()
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(snapshot, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded Snapshot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(decoded.Turns) != len(snapshot.Turns) {
		t.Fatalf("decoded %d turns, want %d", len(decoded.Turns), len(snapshot.Turns))
	}
	if decoded.Turns[2] != snapshot.Turns[2] {
		t.Errorf("turn 2 = %+v, want %+v", decoded.Turns[2], snapshot.Turns[2])
	}
	if !strings.Contains(buf.String(), `"speaker": "assistant"`) {
		t.Errorf("speaker not encoded as role name:\n%s", buf.String())
	}
}

func TestYAMLExporter(t *testing.T) {
	snapshot := sampleSnapshot()
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(snapshot, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded Snapshot
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.SessionID != "web-session" || len(decoded.Turns) != len(snapshot.Turns) {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Turns[1].Speaker != models.User {
		t.Errorf("turn 1 speaker = %v", decoded.Turns[1].Speaker)
	}
}

func TestJSONLExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(sampleSnapshot(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var lines []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var obj map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
			t.Fatalf("line %d: %v", len(lines), err)
		}
		lines = append(lines, obj)
	}

	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	if lines[1]["role"] != "user" || lines[1]["content"] != "Where is my order B-1002?" {
		t.Errorf("line 1 = %v", lines[1])
	}
	if lines[2]["tool_name"] != "order_lookup" {
		t.Errorf("line 2 = %v", lines[2])
	}
	if _, ok := lines[1]["action"]; ok {
		t.Errorf("user line carries an action: %v", lines[1])
	}
	if lines[4]["action"] != models.ActionError {
		t.Errorf("line 4 = %v", lines[4])
	}
}

func TestMarkdownExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(sampleSnapshot(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Session web-session",
		"**Messages:** 5",
		"**You:**",
		"**Assistant:** _(tool: order_lookup)_",
		"**Assistant:** _(error)_",
		`I want a \*\*refund\*\*`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := WriteFile(dir, sampleSnapshot(), "md")
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if filepath.Base(path) != "web-session-20250314-093000.md" {
		t.Errorf("file name = %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# Session web-session") {
		t.Errorf("unexpected content: %q", data)
	}

	if _, err := WriteFile(dir, sampleSnapshot(), "xml"); err == nil {
		t.Error("WriteFile() accepted unsupported format")
	}
}

type failingCloser struct {
	bytes.Buffer
	closeErr error
}

func (f *failingCloser) Close() error { return f.closeErr }

func TestWriteAndCloseReportsCloseError(t *testing.T) {
	exporter, err := NewExporter("json")
	if err != nil {
		t.Fatal(err)
	}

	w := &failingCloser{closeErr: errors.New("disk full")}
	err = writeAndClose(w, sampleSnapshot(), exporter)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("writeAndClose() error = %v, want close error", err)
	}
	if w.Len() == 0 {
		t.Error("nothing written before close")
	}

	if err := writeAndClose(&failingCloser{}, sampleSnapshot(), exporter); err != nil {
		t.Errorf("writeAndClose() error = %v", err)
	}
}

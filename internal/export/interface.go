package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Rorical/BooklyDesk/internal/models"
)

// Snapshot is a point-in-time copy of one conversation.
type Snapshot struct {
	SessionID  string        `json:"session_id" yaml:"session_id"`
	ExportedAt time.Time     `json:"exported_at" yaml:"exported_at"`
	Turns      []models.Turn `json:"turns" yaml:"turns"`
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(snapshot *Snapshot, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// FileName is <session>-<timestamp>.<ext>.
func FileName(snapshot *Snapshot, exporter Exporter) string {
	return fmt.Sprintf("%s-%s.%s", snapshot.SessionID, snapshot.ExportedAt.Format("20060102-150405"), exporter.Extension())
}

// WriteFile exports snapshot into dir and returns the file written.
func WriteFile(dir string, snapshot *Snapshot, format string) (string, error) {
	exporter, err := NewExporter(format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, FileName(snapshot, exporter))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := writeAndClose(f, snapshot, exporter); err != nil {
		return "", err
	}
	return path, nil
}

func writeAndClose(f io.WriteCloser, snapshot *Snapshot, exporter Exporter) error {
	if err := exporter.Export(snapshot, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to export transcript: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	return nil
}

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rorical/BooklyDesk/internal/models"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(snapshot *Snapshot, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", snapshot.SessionID)
	_, _ = fmt.Fprintf(w, "**Exported:** %s  \n", snapshot.ExportedAt.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(snapshot.Turns))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, turn := range snapshot.Turns {
		actor := "You"
		if turn.Speaker == models.Assistant {
			actor = "Assistant"
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", actor, annotations(turn), escapeMarkdown(turn.Text))

		if i < len(snapshot.Turns)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func annotations(turn models.Turn) string {
	var notes []string
	if turn.IsError() {
		notes = append(notes, "error")
	}
	if turn.HasTool() {
		notes = append(notes, "tool: "+turn.ToolName)
	}
	if turn.IsClarifying {
		notes = append(notes, "clarification")
	}
	if len(notes) == 0 {
		return ""
	}
	return " _(" + strings.Join(notes, ", ") + ")_"
}

// escapeMarkdown escapes emphasis markers outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	inCodeBlock := false

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "```"):
			inCodeBlock = !inCodeBlock
		case !inCodeBlock:
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
		}
		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}

package export

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONLExporter exports transcripts in JSONL format (one turn per line)
type JSONLExporter struct{}

func (e *JSONLExporter) Export(snapshot *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, turn := range snapshot.Turns {
		obj := map[string]interface{}{
			"session_id": snapshot.SessionID,
			"role":       turn.Speaker.String(),
			"content":    turn.Text,
		}
		if turn.Action != "" {
			obj["action"] = turn.Action
		}
		if turn.ToolName != "" {
			obj["tool_name"] = turn.ToolName
		}
		if turn.IsClarifying {
			obj["is_clarifying_question"] = true
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode turn: %w", err)
		}
	}

	return nil
}

func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

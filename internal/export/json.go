package export

import (
	"encoding/json"
	"io"
)

// JSONExporter exports transcripts in JSON format (pretty-printed)
type JSONExporter struct{}

func (e *JSONExporter) Export(snapshot *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(snapshot)
}

func (e *JSONExporter) Extension() string {
	return "json"
}

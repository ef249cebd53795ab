package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/buddy/internal"
)

// JSONLExporter exports transcripts in JSONL format (one turn per line)
type JSONLExporter struct{}

type jsonlTurn struct {
	Thread    internal.ThreadID `json:"thread_id"`
	Role      internal.Role     `json:"role"`
	Content   string            `json:"content"`
	Timestamp string            `json:"timestamp,omitempty"`
}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, turn := range transcript.Turns {
		line := jsonlTurn{
			Thread:  transcript.ThreadID,
			Role:    turn.Role,
			Content: turn.Content,
		}
		if !turn.CreatedAt.IsZero() {
			line.Timestamp = turn.CreatedAt.UTC().Format(time.RFC3339)
		}

		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode turn: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/buddy/internal"
	"gopkg.in/yaml.v3"
)

// JSONExporter writes the transcript as one indented JSON document
type JSONExporter struct{}

func (e *JSONExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(transcript); err != nil {
		return fmt.Errorf("failed to encode transcript %s: %w", transcript.ThreadID, err)
	}
	return nil
}

func (e *JSONExporter) Extension() string {
	return "json"
}

// YAMLExporter writes the transcript as one YAML document
type YAMLExporter struct{}

func (e *YAMLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(transcript); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to encode transcript %s: %w", transcript.ThreadID, err)
	}
	return enc.Close()
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}

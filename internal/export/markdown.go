package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/buddy/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Conversation %s\n\n", transcript.ThreadID)

	if transcript.BuddyName != "" {
		_, _ = fmt.Fprintf(w, "**Buddy:** %s  \n", transcript.BuddyName)
	}
	if transcript.Model != "" {
		_, _ = fmt.Fprintf(w, "**Model:** %s  \n", transcript.Model)
	}
	_, _ = fmt.Fprintf(w, "**Turns:** %d\n\n", len(transcript.Turns))

	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, turn := range transcript.Turns {
		timestamp := ""
		if !turn.CreatedAt.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", turn.CreatedAt.UTC().Format(time.RFC3339))
		}

		content := escapeMarkdown(turn.Content)

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", turn.Role, timestamp, content)

		// Add horizontal rule after each turn (except the last one)
		if i < len(transcript.Turns)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/buddy/internal"
	"github.com/spf13/cobra"
)

var limit int

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [thread-id]",
	Short: "Show the turns of a conversation",
	Long:  `Display the locally recorded turns of a conversation. Without an id the active conversation is shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		local, err := openLocal()
		if err != nil {
			return err
		}
		defer func() { _ = local.Close() }()

		var id string
		if len(args) > 0 {
			id = args[0]
		}
		thread, err := local.thread(id)
		if err != nil {
			return err
		}
		transcript, err := internal.LoadTranscript(cmd.Context(), local.store, local.config, thread)
		if err != nil {
			return fmt.Errorf("failed to load transcript: %w", err)
		}

		out := cmd.OutOrStdout()
		displayTranscriptHeader(out, transcript)

		// Show the most recent turns when limited
		turns := transcript.Turns
		total := len(turns)
		skipped := 0
		if limit > 0 && limit < total {
			skipped = total - limit
			turns = turns[skipped:]
		}

		if skipped > 0 {
			fmt.Fprintln(out, lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true).
				Render(fmt.Sprintf("... (%d earlier turn(s))", skipped)))
			fmt.Fprintln(out)
		}
		for i, turn := range turns {
			displayTurn(out, skipped+i+1, turn, total)
		}

		return nil
	},
}

func displayTranscriptHeader(w io.Writer, transcript *internal.Transcript) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("💬 %s", transcript.ThreadID)))

	metaParts := []string{fmt.Sprintf("Buddy: %s", transcript.BuddyName)}
	if transcript.Model != "" {
		metaParts = append(metaParts, fmt.Sprintf("Model: %s", transcript.Model))
	}
	metaParts = append(metaParts, fmt.Sprintf("Turns: %d", len(transcript.Turns)))
	fmt.Fprintln(w, dateStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(w)
}

func displayTurn(w io.Writer, index int, turn internal.Turn, total int) {
	var actorStyle lipgloss.Style
	var actorLabel string

	switch turn.Role {
	case internal.RoleUser:
		actorStyle = userMessageStyle
		actorLabel = "👤 User"
	case internal.RoleAssistant:
		actorStyle = assistantMessageStyle
		actorLabel = "🤖 Assistant"
	default:
		actorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		actorLabel = fmt.Sprintf("🔧 %s", turn.Role)
	}

	header := actorStyle.Render(actorLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if !turn.CreatedAt.IsZero() {
		header += " " + timestampStyle.Render(turn.CreatedAt.Format("15:04:05"))
	}
	fmt.Fprintln(w, header)

	content := strings.TrimSpace(turn.Content)
	if content != "" {
		fmt.Fprintln(w, messageContentStyle.Render(wrapText(content, 80)))
	} else {
		fmt.Fprintln(w, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	}

	fmt.Fprintln(w)
}

// wrapText breaks lines longer than width at word boundaries
func wrapText(text string, width int) string {
	var wrapped []string

	for _, line := range strings.Split(text, "\n") {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		current := ""
		for _, word := range strings.Fields(line) {
			switch {
			case current == "":
				current = word
			case len(current)+len(word)+1 > width:
				wrapped = append(wrapped, current)
				current = word
			default:
				current += " " + word
			}
		}
		if current != "" {
			wrapped = append(wrapped, current)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last n turns")
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/iksnae/buddy/internal"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatRecreate bool

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation with the buddy",
	Long: `Start an interactive conversation with the buddy.

Before the first prompt the assistant's instructions and file bundles are
brought up to date. Lines starting with a slash are directives; type /h to
list them.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dir, err := resolveDir()
	if err != nil {
		return err
	}
	rem, err := newRemote(dir)
	if err != nil {
		return err
	}

	var b *internal.Buddy
	err = internal.ShowProgress(ctx, "Preparing buddy", func() error {
		var initErr error
		b, initErr = internal.InitFromDir(ctx, dir, rem, chatRecreate)
		return initErr
	})
	if err != nil {
		return err
	}

	st, err := internal.NewChatState(ctx, b)
	if err != nil {
		_ = b.Close()
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🤖 %s", b.Name())),
		idStyle.Render(fmt.Sprintf("(%s, conversation %s, /h for help)", b.Model(), st.Conversation.ThreadID)))

	final, err := chatLoop(ctx, st, newPrompter(cmd.InOrStdin(), out), newRenderer(out), out, cmd.ErrOrStderr())
	if closeErr := final.Buddy.Close(); closeErr != nil {
		internal.LogWarn("Failed to close buddy: %v", closeErr)
	}
	return err
}

// chatLoop reads input until /q, end of input or cancellation. Failed turns
// are reported on errOut and the loop goes on.
func chatLoop(ctx context.Context, st internal.ChatState, p prompter, render func(string) string, out, errOut io.Writer) (internal.ChatState, error) {
	for {
		if err := ctx.Err(); err != nil {
			return st, nil
		}

		line, err := p.Prompt()
		if errors.Is(err, io.EOF) {
			return st, nil
		}
		if err != nil {
			return st, err
		}

		var outcome internal.Outcome
		next := st
		apply := func() error {
			var applyErr error
			next, outcome, applyErr = internal.Apply(ctx, st, line)
			return applyErr
		}
		if msg := progressMessage(line); msg != "" {
			err = internal.ShowProgress(ctx, msg, apply)
		} else {
			err = apply()
		}
		st = next
		if err != nil {
			if ctx.Err() != nil {
				return st, nil
			}
			fmt.Fprintln(errOut, errorStyle.Render("✗"), err)
			continue
		}

		switch {
		case outcome.Quit:
			return st, nil
		case outcome.Reply != "":
			fmt.Fprintln(out, render(outcome.Reply))
		case outcome.Message != "":
			fmt.Fprintln(out, infoStyle.Render(outcome.Message))
		}
	}
}

func progressMessage(line string) string {
	directive, text := internal.ParseInput(line)
	switch directive {
	case internal.DirectiveNone:
		if text == "" {
			return ""
		}
		return "Thinking"
	case internal.DirectiveRefreshAll:
		return "Recreating assistant"
	case internal.DirectiveRefreshConversation:
		return "Starting conversation"
	case internal.DirectiveRefreshInstructions:
		return "Uploading instructions"
	case internal.DirectiveRefreshFiles:
		return "Uploading files"
	}
	return ""
}

// newRenderer renders markdown replies when out is a terminal
func newRenderer(out io.Writer) func(string) string {
	plain := func(s string) string { return strings.TrimSpace(s) + "\n" }
	if !internal.IsTerminal(out) {
		return plain
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 8 && w-4 < width {
		width = w - 4
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		internal.LogDebug("Markdown rendering disabled: %v", err)
		return plain
	}

	return func(s string) string {
		rendered, err := renderer.Render(s)
		if err != nil {
			return plain(s)
		}
		return rendered
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&chatRecreate, "recreate", false, "Delete and recreate the assistant before chatting")
}

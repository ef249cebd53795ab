package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/iksnae/buddy/internal"
	"github.com/iksnae/buddy/internal/remote"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	buddyDir string
	version  string = "dev"
	commit   string = "unknown"
	date     string = "unknown"
)

// newRemote builds the client for the hosted assistant service
var newRemote = func(dir string) (internal.Remote, error) {
	key, err := internal.LoadCredential(dir)
	if err != nil {
		return nil, err
	}
	return remote.New(key, os.Getenv(internal.EnvBaseURL)), nil
}

// rootCmd represents the base command; without a subcommand it starts a chat
var rootCmd = &cobra.Command{
	Use:   "buddy",
	Short: "Chat with an AI assistant that knows your project files",
	Long: `buddy binds a directory to a hosted AI assistant.

It keeps the assistant's instructions and knowledge files in sync with the
files named in buddy.toml, and relays your chat messages to it.

Quick Start:
  buddy init                 # Write a sample buddy.toml
  buddy sync                 # Upload instructions and file bundles
  buddy                      # Start chatting
  buddy export --format md   # Export the current conversation`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	RunE: runChat,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&buddyDir, "dir", "d", ".", "Buddy directory (defaults to the nearest parent holding buddy.toml)")
	rootCmd.Flags().BoolVar(&chatRecreate, "recreate", false, "Delete and recreate the assistant before chatting")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// resolveDir finds the buddy directory starting at --dir
func resolveDir() (string, error) {
	return internal.DetectBuddyDir(buddyDir)
}

// openBuddy connects to the remote and opens the session of the buddy directory
func openBuddy(ctx context.Context, recreate bool) (*internal.Buddy, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	rem, err := newRemote(dir)
	if err != nil {
		return nil, err
	}

	var b *internal.Buddy
	err = internal.ShowProgress(ctx, "Connecting to assistant", func() error {
		var openErr error
		b, openErr = internal.Open(ctx, dir, rem, recreate)
		return openErr
	})
	return b, err
}

// localState is the part of a buddy directory readable without the remote
type localState struct {
	config    *internal.Config
	workspace internal.Workspace
	store     *internal.Store
}

func openLocal() (*localState, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	config, err := internal.LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	workspace := internal.NewWorkspace(dir)
	if !internal.IsDir(workspace.DataDir) {
		return nil, fmt.Errorf("no buddy data in %s yet, run 'buddy sync' or 'buddy' first: %w", dir, internal.ErrNotFound)
	}
	store, err := internal.OpenStore(workspace.StorePath())
	if err != nil {
		return nil, err
	}
	return &localState{config: config, workspace: workspace, store: store}, nil
}

// thread returns id, or the active conversation thread when id is empty
func (l *localState) thread(id string) (internal.ThreadID, error) {
	if id != "" {
		return internal.ThreadID(id), nil
	}
	conv, err := internal.NewConversationManager(nil, l.workspace.ConversationPath()).Load()
	if err != nil {
		return "", fmt.Errorf("no active conversation: %w", err)
	}
	return conv.ThreadID, nil
}

func (l *localState) Close() error {
	return l.store.Close()
}

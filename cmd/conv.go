package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var convRecreate bool

// convCmd represents the conv command
var convCmd = &cobra.Command{
	Use:   "conv",
	Short: "Print the active conversation thread",
	Long: `Print the id of the active conversation, creating one when none exists or
the remote thread is gone. Use --new to start over.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		b, err := openBuddy(ctx, false)
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }()

		conv, err := b.LoadOrCreateConversation(ctx, convRecreate)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), conv.ThreadID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convCmd)
	convCmd.Flags().BoolVar(&convRecreate, "new", false, "Start a new conversation")
}

package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded conversations",
	Long:  `List the conversations recorded in this buddy directory, most recent first. The active one is marked with *.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		local, err := openLocal()
		if err != nil {
			return err
		}
		defer func() { _ = local.Close() }()

		threads, err := local.store.Threads(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list threads: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(threads) == 0 {
			fmt.Fprintln(out, "No conversations recorded yet.")
			return nil
		}

		active, _ := local.thread("")

		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("💬 %s", local.config.Name)),
			countStyle.Render(fmt.Sprintf("%d conversation(s)", len(threads))))
		fmt.Fprintln(out)

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, " \t"+titleStyle.Render("Thread")+"\t"+titleStyle.Render("Turns")+"\t"+titleStyle.Render("Started")+"\t"+titleStyle.Render("Last")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))
		for _, thread := range threads {
			marker := " "
			if thread.ThreadID == active {
				marker = "*"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t\n",
				marker,
				idStyle.Render(thread.ThreadID.String()),
				thread.Turns,
				dateStyle.Render(thread.FirstTurn.Format("2006-01-02 15:04")),
				dateStyle.Render(thread.LastTurn.Format("2006-01-02 15:04")))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

package cmd

import (
	"fmt"

	"github.com/iksnae/buddy/internal"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a sample buddy.toml",
	Long:  `Write a sample buddy.toml and instructions.md into dir (default --dir). Existing configuration is never overwritten.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := buddyDir
		if len(args) > 0 {
			dir = args[0]
		}
		if err := internal.InitConfig(dir); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, successStyle.Render("✅ Created "+internal.NewWorkspace(dir).ConfigPath()))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Next steps:")
		fmt.Fprintln(out, "  • Edit buddy.toml and instructions.md")
		fmt.Fprintf(out, "  • Set %s (or put it in .env)\n", internal.EnvAPIKey)
		fmt.Fprintln(out, "  • Run 'buddy sync', then 'buddy'")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

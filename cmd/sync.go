package cmd

import (
	"fmt"

	"github.com/iksnae/buddy/internal"
	"github.com/spf13/cobra"
)

var (
	syncRecreate bool
	syncForce    bool
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upload instructions and file bundles to the assistant",
	Long: `Bring the assistant up to date with the buddy directory.

The instructions file is uploaded, every file bundle is rebuilt, and bundles
whose content changed since the last upload are sent again. Artifacts left
from a previous assistant are deleted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		b, err := openBuddy(ctx, syncRecreate)
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }()

		out := cmd.OutOrStdout()
		var uploaded bool
		var result *internal.SyncResult
		err = internal.ShowProgressWithSteps(ctx, []internal.ProgressStep{
			{Message: "Uploading instructions", Fn: func() error {
				var uploadErr error
				uploaded, uploadErr = b.UploadInstructions(ctx)
				return uploadErr
			}},
			{Message: "Uploading file bundles", Fn: func() error {
				var syncErr error
				result, syncErr = b.UploadFiles(ctx, syncForce || syncRecreate)
				return syncErr
			}},
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(out, sectionStyle.Render(fmt.Sprintf("🔄 %s (%s)", b.Name(), b.AssistantID())))
		if uploaded {
			fmt.Fprintln(out, successStyle.Render("✅ Instructions uploaded"))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No instructions file found"))
		}
		internal.PrintSyncResult(out, result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&syncRecreate, "recreate", false, "Delete and recreate the assistant first")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "Upload every bundle even when unchanged")
}

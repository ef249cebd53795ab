package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/iksnae/buddy/internal"
	"github.com/spf13/cobra"
)

// filesCmd represents the files command
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Show uploaded knowledge files",
	Long: `Show the upload records of this buddy directory: which bundle artifact was
uploaded as which remote file, and the content hash it was uploaded with.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		local, err := openLocal()
		if err != nil {
			return err
		}
		defer func() { _ = local.Close() }()

		records, err := local.store.UploadRecords(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list uploads: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No files uploaded yet.")
			return nil
		}

		fmt.Fprintf(out, "📦 %s\n\n", local.workspace.FilesDir())
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("File")+"\t"+titleStyle.Render("Remote ID")+"\t"+titleStyle.Render("Hash")+"\t"+titleStyle.Render("Uploaded")+"\t")
		var assistant internal.AssistantID
		for _, rec := range records {
			if rec.AssistantID != assistant {
				assistant = rec.AssistantID
				_, _ = fmt.Fprintf(w, "%s\t\t\t\t\n", sectionStyle.Render(assistant.String()))
			}
			hash := rec.ContentHash
			if len(hash) > 12 {
				hash = hash[:12]
			}
			_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t\n",
				filepath.Base(rec.Path),
				idStyle.Render(rec.FileID.String()),
				hash,
				dateStyle.Render(rec.UploadedAt.Format("2006-01-02 15:04")))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

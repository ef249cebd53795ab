package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/buddy/internal"
	"github.com/iksnae/buddy/internal/export"
	"github.com/spf13/cobra"
)

var (
	format   string
	outPath  string
	threadID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a conversation transcript",
	Long: `Export the locally recorded transcript of a conversation (jsonl, md, yaml, json).
The format defaults to the extension of --out, or jsonl.

Without --thread the active conversation is exported. Use 'buddy list' to see
recorded threads. When --out names a directory the file is named after the thread.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := chooseExporter(format, outPath)
		if err != nil {
			return err
		}

		local, err := openLocal()
		if err != nil {
			return err
		}
		defer func() { _ = local.Close() }()

		thread, err := local.thread(threadID)
		if err != nil {
			return err
		}
		transcript, err := internal.LoadTranscript(cmd.Context(), local.store, local.config, thread)
		if err != nil {
			return fmt.Errorf("failed to load transcript: %w", err)
		}
		if len(transcript.Turns) == 0 {
			internal.LogWarn("No recorded turns for thread %s", thread)
		}

		if outPath == "" || outPath == "-" {
			return exporter.Export(transcript, cmd.OutOrStdout())
		}
		return exportToFile(exporter, transcript, outPath)
	},
}

// chooseExporter uses format when set, then the extension of a file target, then jsonl
func chooseExporter(format, target string) (export.Exporter, error) {
	if format != "" {
		return export.NewExporter(format)
	}
	if target != "" && target != "-" && !internal.IsDir(target) && filepath.Ext(target) != "" {
		return export.ForPath(target)
	}
	return export.NewExporter("jsonl")
}

func exportToFile(exporter export.Exporter, transcript *internal.Transcript, path string) error {
	if internal.IsDir(path) {
		path = filepath.Join(path, fmt.Sprintf("%s.%s", transcript.ThreadID, exporter.Extension()))
	}
	if err := internal.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return &internal.IOError{Op: "create", Path: path, Err: err}
	}
	if err := exporter.Export(transcript, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to export %s: %w", transcript.ThreadID, err)
	}
	if err := f.Close(); err != nil {
		return &internal.IOError{Op: "close", Path: path, Err: err}
	}

	internal.LogInfo("Exported %d turn(s) to %s", len(transcript.Turns), path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "", "Export format: "+strings.Join(export.Formats(), ", ")+" (default from --out extension, else jsonl)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file or directory (default stdout)")
	exportCmd.Flags().StringVar(&threadID, "thread", "", "Export a specific thread by ID")
}

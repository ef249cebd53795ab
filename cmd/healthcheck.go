package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/iksnae/buddy/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
	healthcheckRemote  bool
)

var errUnhealthy = errors.New("healthcheck failed")

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that buddy can run in this directory",
	Long: `Check the health of a buddy directory by verifying:
  • Configuration detection and validation
  • API credential availability
  • Data directory access
  • Session lock availability
  • Local store access
  • Remote service access (with --remote)

This command is useful for debugging setup issues, especially in CI/CD environments.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Buddy Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		dir, err := resolveDir()
		if err != nil {
			return fail(out, "Failed to find buddy.toml:", err)
		}
		config, err := internal.LoadConfig(dir)
		if err != nil {
			return fail(out, "Invalid configuration:", err)
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Configuration loaded (%s, %s)", config.Name, config.Model)))
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Directory: %s\n", dir)
			fmt.Fprintf(out, "   Bundles: %d\n", len(config.FileBundles))
			fmt.Fprintf(out, "   Run timeout: %s, max polls: %d\n", config.Run.Timeout, config.Run.MaxPolls)
		}
		fmt.Fprintln(out)

		// Step 2: Credential
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking API credential..."))
		if _, err := internal.LoadCredential(dir); err != nil {
			return fail(out, "No credential:", err)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Credential found"))
		fmt.Fprintln(out)

		// Step 3: Data directory
		workspace := internal.NewWorkspace(dir)
		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking data directory..."))
		if !internal.IsDir(workspace.DataDir) {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Data directory not created yet"))
			fmt.Fprintln(out, "   It is created by the first 'buddy sync' or chat")
			fmt.Fprintln(out)
			return summary(out, false)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Data directory exists"))
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Path: %s\n", workspace.DataDir)
		}
		fmt.Fprintln(out)

		// Step 4: Lock
		fmt.Fprintln(out, infoStyle.Render("Step 4: Checking session lock..."))
		lock, err := internal.AcquireDirLock(workspace.LockPath())
		if errors.Is(err, internal.ErrLocked) {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Another buddy session is running"))
		} else if err != nil {
			return fail(out, "Failed to take the lock:", err)
		} else {
			_ = lock.Release()
			fmt.Fprintln(out, successStyle.Render("✅ Lock available"))
		}
		fmt.Fprintln(out)

		// Step 5: Store
		fmt.Fprintln(out, infoStyle.Render("Step 5: Opening local store..."))
		store, err := internal.OpenStore(workspace.StorePath())
		if err != nil {
			return fail(out, "Failed to open store:", err)
		}
		threads, err := store.Threads(cmd.Context())
		_ = store.Close()
		if err != nil {
			return fail(out, "Failed to read store:", err)
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d recorded conversation(s)", len(threads))))
		fmt.Fprintln(out)

		// Step 6: Remote
		if healthcheckRemote {
			fmt.Fprintln(out, infoStyle.Render("Step 6: Contacting remote service..."))
			rem, err := newRemote(dir)
			if err != nil {
				return fail(out, "Failed to create client:", err)
			}
			if _, err := internal.FindAssistantByName(cmd.Context(), rem, config.Name); err != nil {
				if !errors.Is(err, internal.ErrNotFound) {
					return fail(out, "Remote service unreachable:", err)
				}
				fmt.Fprintln(out, warningStyle.Render("⚠️  Assistant "+config.Name+" does not exist yet"))
			} else {
				fmt.Fprintln(out, successStyle.Render("✅ Assistant "+config.Name+" found"))
			}
			fmt.Fprintln(out)
		}

		return summary(out, true)
	},
}

func fail(out io.Writer, msg string, err error) error {
	fmt.Fprintln(out, errorStyle.Render("❌ "+msg), err)
	fmt.Fprintln(out)
	return fmt.Errorf("%w: %w", errUnhealthy, err)
}

func summary(out io.Writer, ready bool) error {
	fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
	fmt.Fprintln(out)
	if ready {
		fmt.Fprintln(out, successStyle.Render("✅ buddy is ready"))
	} else {
		fmt.Fprintln(out, warningStyle.Render("⚠️  buddy is configured but has not run yet"))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckVerbose, "details", false, "Show detailed diagnostic information")
	healthcheckCmd.Flags().BoolVar(&healthcheckRemote, "remote", false, "Also contact the remote service")
}

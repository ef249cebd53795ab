package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iksnae/buddy/internal"
	"github.com/iksnae/buddy/testutil"
	"github.com/spf13/cobra"
)

// resetFlags restores flag variables, which persist across rootCmd executions
func resetFlags() {
	verbose = false
	buddyDir = "."
	chatRecreate = false
	syncRecreate = false
	syncForce = false
	convRecreate = false
	format = ""
	outPath = ""
	threadID = ""
	limit = 0
	healthcheckVerbose = false
	healthcheckRemote = false
	resetBuiltinFlags(rootCmd)
}

// resetBuiltinFlags clears cobra's lazily added help and version flags,
// which otherwise stay set on the command tree after a --help run
func resetBuiltinFlags(cmd *cobra.Command) {
	for _, name := range []string{"help", "version"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	for _, sub := range cmd.Commands() {
		resetBuiltinFlags(sub)
	}
}

// useFakeRemote makes every command talk to fake for the rest of the test
func useFakeRemote(t *testing.T, fake *internal.FakeRemote) {
	t.Helper()
	prev := newRemote
	newRemote = func(string) (internal.Remote, error) { return fake, nil }
	t.Cleanup(func() { newRemote = prev })
}

func newTestBuddyDir(t *testing.T) string {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	testutil.CreateBuddyFixture(t, dir, testutil.DefaultConfigFixture())
	testutil.WriteFiles(t, dir, map[string]string{"src/a.txt": "alpha", "src/b.txt": "beta"})
	return dir
}

// executeCommand runs rootCmd with args and stdin, returning stdout and stderr
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/buddy/internal"
	"github.com/iksnae/buddy/testutil"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, "", tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_NoConfig(t *testing.T) {
	dir := testutil.CreateTempDir(t)

	_, _, err := executeCommand(t, "", "--dir", dir, "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestRootCommand_DetectsParentDir(t *testing.T) {
	dir := newTestBuddyDir(t)
	useFakeRemote(t, internal.NewFakeRemote())

	_, _, err := executeCommand(t, "", "--dir", filepath.Join(dir, "src"), "sync")
	require.NoError(t, err)
	assert.True(t, testutil.Exists(t, filepath.Join(dir, ".buddy", "buddy.db")))
}

func TestRootCommand_DefaultsToChat(t *testing.T) {
	dir := newTestBuddyDir(t)
	fake := internal.NewFakeRemote()
	useFakeRemote(t, fake)

	stdout, _, err := executeCommand(t, "hello\n", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok")
	assert.Equal(t, 1, fake.CallCount("thread.run.create"))
}

func TestRootCommand_ChatAfterHelp(t *testing.T) {
	_, _, err := executeCommand(t, "", "--help")
	require.NoError(t, err)

	dir := newTestBuddyDir(t)
	fake := internal.NewFakeRemote()
	useFakeRemote(t, fake)

	stdout, _, err := executeCommand(t, "hello\n", "--dir", dir)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "ok")
	assert.Equal(t, 1, fake.CallCount("thread.run.create"))
}

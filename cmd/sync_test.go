package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/buddy/internal"
	"github.com/iksnae/buddy/testutil"
)

func TestSyncCommand(t *testing.T) {
	dir := newTestBuddyDir(t)
	fake := internal.NewFakeRemote()
	useFakeRemote(t, fake)

	stdout, _, err := executeCommand(t, "", "--dir", dir, "sync")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Instructions uploaded")
	assert.Contains(t, stdout, "1 of 1 bundle(s) uploaded")
	assert.Equal(t, 1, fake.CallCount("file.upload"))

	stdout, _, err = executeCommand(t, "", "--dir", dir, "sync")
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 of 1 bundle(s) uploaded")
	assert.Equal(t, 1, fake.CallCount("file.upload"), "unchanged bundle is skipped")

	_, _, err = executeCommand(t, "", "--dir", dir, "sync", "--force")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.CallCount("file.upload"))
}

func TestSyncCommand_ChangedBundle(t *testing.T) {
	dir := newTestBuddyDir(t)
	fake := internal.NewFakeRemote()
	useFakeRemote(t, fake)

	_, _, err := executeCommand(t, "", "--dir", dir, "sync")
	require.NoError(t, err)

	testutil.WriteFiles(t, dir, map[string]string{"src/c.txt": "gamma"})
	stdout, _, err := executeCommand(t, "", "--dir", dir, "sync")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 of 1 bundle(s) uploaded")
	assert.Equal(t, 1, fake.CallCount("file.delete"), "replaced file is deleted remotely")
}

func TestSyncCommand_NoInstructions(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	fx := testutil.DefaultConfigFixture()
	fx.Instructions = ""
	testutil.CreateBuddyFixture(t, dir, fx)
	useFakeRemote(t, internal.NewFakeRemote())

	stdout, _, err := executeCommand(t, "", "--dir", dir, "sync")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No instructions file found")
	assert.Contains(t, stdout, "skipped bundle docs")
}

func TestSyncCommand_Recreate(t *testing.T) {
	dir := newTestBuddyDir(t)
	fake := internal.NewFakeRemote()
	useFakeRemote(t, fake)

	_, _, err := executeCommand(t, "", "--dir", dir, "sync")
	require.NoError(t, err)
	first := fake.Assistants()[0].ID

	stdout, _, err := executeCommand(t, "", "--dir", dir, "sync", "--recreate")
	require.NoError(t, err)
	second := fake.Assistants()[0].ID
	assert.NotEqual(t, first, second)
	assert.Contains(t, stdout, "deleted stale")
	assert.False(t, testutil.Exists(t, filepath.Join(dir, ".buddy", "files", "test-buddy-docs-bundle-"+first.String()+".txt")))
	assert.True(t, testutil.Exists(t, filepath.Join(dir, ".buddy", "files", "test-buddy-docs-bundle-"+second.String()+".txt")))
}

func TestSyncCommand_RemoteFailure(t *testing.T) {
	dir := newTestBuddyDir(t)
	fake := internal.NewFakeRemote()
	fake.Errors = map[string]error{"file.upload": assert.AnError}
	useFakeRemote(t, fake)

	_, _, err := executeCommand(t, "", "--dir", dir, "sync")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

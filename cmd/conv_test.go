package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/buddy/internal"
)

// chatOnce records one turn pair and returns the active thread id
func chatOnce(t *testing.T, dir, text string) string {
	t.Helper()
	_, _, err := executeCommand(t, text+"\n", "--dir", dir, "chat")
	require.NoError(t, err)

	stdout, _, err := executeCommand(t, "", "--dir", dir, "conv")
	require.NoError(t, err)
	return strings.TrimSpace(stdout)
}

func TestConvCommand(t *testing.T) {
	dir := newTestBuddyDir(t)
	fake := internal.NewFakeRemote()
	useFakeRemote(t, fake)

	stdout, _, err := executeCommand(t, "", "--dir", dir, "conv")
	require.NoError(t, err)
	first := strings.TrimSpace(stdout)
	assert.NotEmpty(t, first)

	stdout, _, err = executeCommand(t, "", "--dir", dir, "conv")
	require.NoError(t, err)
	assert.Equal(t, first, strings.TrimSpace(stdout), "conversation is reused")

	stdout, _, err = executeCommand(t, "", "--dir", dir, "conv", "--new")
	require.NoError(t, err)
	assert.NotEqual(t, first, strings.TrimSpace(stdout))
	assert.Equal(t, 2, fake.CallCount("thread.create"))
}

func TestConvCommand_RemoteThreadGone(t *testing.T) {
	dir := newTestBuddyDir(t)
	fake := internal.NewFakeRemote()
	useFakeRemote(t, fake)

	stdout, _, err := executeCommand(t, "", "--dir", dir, "conv")
	require.NoError(t, err)
	first := strings.TrimSpace(stdout)
	fake.ForgetThread(internal.ThreadID(first))

	stdout, _, err = executeCommand(t, "", "--dir", dir, "conv")
	require.NoError(t, err)
	assert.NotEqual(t, first, strings.TrimSpace(stdout))
}

package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/buddy/internal"
	"github.com/iksnae/buddy/testutil"
)

func TestExportCommand(t *testing.T) {
	dir := newTestBuddyDir(t)
	useFakeRemote(t, internal.NewFakeRemote())
	thread := chatOnce(t, dir, "hello there")

	tests := []struct {
		name   string
		format string
		want   []string
	}{
		{"jsonl", "jsonl", []string{`"role":"user"`, `"content":"hello there"`, `"thread_id":"` + thread + `"`}},
		{"markdown", "md", []string{"# Conversation " + thread, "**Buddy:** test-buddy", "hello there"}},
		{"yaml", "yaml", []string{"thread_id: " + thread, "content: hello there"}},
		{"json", "json", []string{`"buddy": "test-buddy"`, `"content": "ok"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := executeCommand(t, "", "--dir", dir, "export", "--format", tt.format)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestExportCommand_JSONLLines(t *testing.T) {
	dir := newTestBuddyDir(t)
	useFakeRemote(t, internal.NewFakeRemote())
	chatOnce(t, dir, "hello")

	stdout, _, err := executeCommand(t, "", "--dir", dir, "export")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "user", first["role"])
}

func TestExportCommand_ToDirectory(t *testing.T) {
	dir := newTestBuddyDir(t)
	useFakeRemote(t, internal.NewFakeRemote())
	thread := chatOnce(t, dir, "hello")
	outDir := testutil.CreateTempDir(t)

	_, _, err := executeCommand(t, "", "--dir", dir, "export", "-f", "md", "-o", outDir)
	require.NoError(t, err)
	content := testutil.ReadFile(t, filepath.Join(outDir, thread+".md"))
	assert.Contains(t, content, "hello")
}

func TestExportCommand_ToFile(t *testing.T) {
	dir := newTestBuddyDir(t)
	useFakeRemote(t, internal.NewFakeRemote())
	chatOnce(t, dir, "hello")
	out := filepath.Join(testutil.CreateTempDir(t), "nested", "chat.yaml")

	_, _, err := executeCommand(t, "", "--dir", dir, "export", "-f", "yaml", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, testutil.ReadFile(t, out), "role: assistant")
}

func TestExportCommand_Errors(t *testing.T) {
	dir := newTestBuddyDir(t)
	useFakeRemote(t, internal.NewFakeRemote())

	_, _, err := executeCommand(t, "", "--dir", dir, "export")
	assert.ErrorIs(t, err, internal.ErrNotFound, "no data directory yet")

	chatOnce(t, dir, "hello")
	_, _, err = executeCommand(t, "", "--dir", dir, "export", "--format", "pdf")
	assert.Error(t, err)
}

func TestExportCommand_UnknownThread(t *testing.T) {
	dir := newTestBuddyDir(t)
	useFakeRemote(t, internal.NewFakeRemote())
	chatOnce(t, dir, "hello")

	stdout, _, err := executeCommand(t, "", "--dir", dir, "export", "--thread", "thread_missing")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(stdout))
}

func TestExportCommand_FormatFromExtension(t *testing.T) {
	dir := newTestBuddyDir(t)
	useFakeRemote(t, internal.NewFakeRemote())
	thread := chatOnce(t, dir, "hello")
	out := filepath.Join(testutil.CreateTempDir(t), "chat.md")

	_, _, err := executeCommand(t, "", "--dir", dir, "export", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, testutil.ReadFile(t, out), "# Conversation "+thread)
}

func TestChooseExporter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		target  string
		wantExt string
		wantErr bool
	}{
		{name: "default", wantExt: "jsonl"},
		{name: "stdout dash", target: "-", wantExt: "jsonl"},
		{name: "explicit wins", format: "yaml", target: "chat.md", wantExt: "yaml"},
		{name: "from extension", target: "chat.json", wantExt: "json"},
		{name: "no extension", target: "chat", wantExt: "jsonl"},
		{name: "unknown extension", target: "chat.pdf", wantErr: true},
		{name: "unknown format", format: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter, err := chooseExporter(tt.format, tt.target)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, exporter.Extension())
		})
	}
}

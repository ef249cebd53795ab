package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/buddy/testutil"
)

type syncFixture struct {
	dir       string
	workspace Workspace
	fake      *FakeRemote
	store     *Store
	syncer    *Syncer
}

func newSyncFixture(t *testing.T, fx testutil.ConfigFixture, files map[string]string) *syncFixture {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	testutil.CreateBuddyFixture(t, dir, fx)
	testutil.WriteFiles(t, dir, files)

	config, err := LoadConfig(dir)
	require.NoError(t, err)

	workspace := NewWorkspace(dir)
	require.NoError(t, workspace.Ensure())

	fake := NewFakeRemote()
	store := newTestStore(t)
	return &syncFixture{
		dir:       dir,
		workspace: workspace,
		fake:      fake,
		store:     store,
		syncer:    NewSyncer(workspace, config, NewUploadCache(fake, store), store),
	}
}

func TestSync_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t, testutil.DefaultConfigFixture(), map[string]string{
		"src/a.txt": "first file",
		"src/b.txt": "second file",
	})
	artifact := filepath.Join(f.workspace.FilesDir(), "test-buddy-docs-bundle-asst_1.txt")

	result, err := f.syncer.Sync(ctx, "asst_1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)
	assert.Equal(t, []string{artifact}, result.Artifacts)
	assert.Equal(t, "// ==== file path: a.txt\n\nfirst file\n\n// ==== file path: b.txt\n\nsecond file\n\n", testutil.ReadFile(t, artifact))

	result, err = f.syncer.Sync(ctx, "asst_1", false)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Uploaded)

	result, err = f.syncer.Sync(ctx, "asst_1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)
	assert.Equal(t, 2, f.fake.CallCount("file.upload"))

	entries, err := os.ReadDir(f.workspace.FilesDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "one artifact per bundle")
}

func TestSync_ContentChangeUploads(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t, testutil.DefaultConfigFixture(), map[string]string{"src/a.txt": "v1"})

	_, err := f.syncer.Sync(ctx, "asst_1", false)
	require.NoError(t, err)

	testutil.WriteFiles(t, f.dir, map[string]string{"src/a.txt": "v2"})
	result, err := f.syncer.Sync(ctx, "asst_1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)
}

func TestSync_IdentityChangeInvalidatesArtifacts(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t, testutil.DefaultConfigFixture(), map[string]string{"src/a.txt": "content"})
	oldArtifact := filepath.Join(f.workspace.FilesDir(), "test-buddy-docs-bundle-asst_A.txt")
	newArtifact := filepath.Join(f.workspace.FilesDir(), "test-buddy-docs-bundle-asst_B.txt")

	_, err := f.syncer.Sync(ctx, "asst_A", false)
	require.NoError(t, err)
	require.True(t, testutil.Exists(t, oldArtifact))

	result, err := f.syncer.Sync(ctx, "asst_B", false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded, "content upload is never reused across assistants")
	assert.Equal(t, []string{oldArtifact}, result.Deleted)
	assert.False(t, testutil.Exists(t, oldArtifact))
	assert.True(t, testutil.Exists(t, newArtifact))
	assert.Len(t, f.fake.Attached["asst_B"], 1)

	_, err = f.store.UploadRecord(ctx, "asst_A", oldArtifact)
	assert.ErrorIs(t, err, ErrNotFound, "records of the old assistant are pruned")
}

func TestSync_KeepsUnrelatedFiles(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t, testutil.DefaultConfigFixture(), map[string]string{"src/a.txt": "content"})
	notes := filepath.Join(f.workspace.FilesDir(), "notes.txt")
	testutil.WriteFiles(t, f.workspace.FilesDir(), map[string]string{"notes.txt": "mine"})

	_, err := f.syncer.Sync(ctx, "asst_1", false)
	require.NoError(t, err)
	assert.True(t, testutil.Exists(t, notes))
}

func TestSync_ExistingArtifactWithoutRecordUploads(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t, testutil.DefaultConfigFixture(), map[string]string{"src/a.txt": "content"})

	_, err := f.syncer.Sync(ctx, "asst_1", false)
	require.NoError(t, err)

	_, err = f.store.PruneUploadRecords(ctx, "nobody")
	require.NoError(t, err)

	result, err := f.syncer.Sync(ctx, "asst_1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)
}

func TestSync_SkipsOptionalBundles(t *testing.T) {
	ctx := context.Background()
	fx := testutil.DefaultConfigFixture()
	fx.Bundles = append(fx.Bundles,
		testutil.BundleFixture{Name: "absent", SrcDir: "nowhere", Globs: []string{"*"}, Ext: "txt"},
		testutil.BundleFixture{Name: "empty", SrcDir: "src", Globs: []string{"*.go"}, Ext: "go"},
	)
	f := newSyncFixture(t, fx, map[string]string{"src/a.txt": "content"})

	result, err := f.syncer.Sync(ctx, "asst_1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)
	assert.Equal(t, []string{"absent", "empty"}, result.Skipped)
	assert.Len(t, result.Artifacts, 1)
}

func TestSync_UploadErrorPropagates(t *testing.T) {
	f := newSyncFixture(t, testutil.DefaultConfigFixture(), map[string]string{"src/a.txt": "content"})
	f.fake.Errors["file.upload"] = assert.AnError

	_, err := f.syncer.Sync(context.Background(), "asst_1", false)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSync_CanceledContext(t *testing.T) {
	f := newSyncFixture(t, testutil.DefaultConfigFixture(), map[string]string{"src/a.txt": "content"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.syncer.Sync(ctx, "asst_1", false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.fake.CallCount("file.upload"))
}

func TestRemoveStaleArtifact(t *testing.T) {
	base := testutil.CreateTempDir(t)
	root := filepath.Join(base, ".buddy")
	testutil.WriteFiles(t, base, map[string]string{
		".buddy/files/old-bundle-asst_1.txt": "stale",
		"precious.txt":                       "keep me",
		".buddyish/file.txt":                 "keep me too",
	})

	tests := []struct {
		name string
		path string
	}{
		{name: "outside the data directory", path: filepath.Join(base, "precious.txt")},
		{name: "escaping with dot-dot", path: filepath.Join(root, "files", "..", "..", "precious.txt")},
		{name: "sibling sharing the prefix", path: filepath.Join(base, ".buddyish", "file.txt")},
		{name: "the data directory itself", path: root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, statErr := os.Stat(tt.path)
			require.NoError(t, statErr)

			err := RemoveStaleArtifact(root, tt.path)
			assert.ErrorIs(t, err, ErrSafetyViolation)

			after, statErr := os.Stat(tt.path)
			require.NoError(t, statErr, "refused path must not be touched")
			assert.Equal(t, before.ModTime(), after.ModTime())
		})
	}

	t.Run("inside the data directory", func(t *testing.T) {
		path := filepath.Join(root, "files", "old-bundle-asst_1.txt")
		require.NoError(t, RemoveStaleArtifact(root, path))
		assert.False(t, testutil.Exists(t, path))
	})

	t.Run("already gone", func(t *testing.T) {
		err := RemoveStaleArtifact(root, filepath.Join(root, "files", "missing.txt"))
		var ioErr *IOError
		assert.ErrorAs(t, err, &ioErr)
	})
}

package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// artifactPatterns selects bundle artifacts inside the files directory
var artifactPatterns = []string{"*-bundle-*.*"}

// SyncResult reports what one sync pass did
type SyncResult struct {
	Uploaded  int      // bundles whose artifact was uploaded
	Artifacts []string // artifacts written, in bundle order
	Deleted   []string // stale artifacts removed
	Skipped   []string // bundles without a source directory or matching files
}

// Syncer keeps the assistant's knowledge files in step with the configured bundles
type Syncer struct {
	workspace Workspace
	config    *Config
	cache     *UploadCache
	store     *Store
}

// NewSyncer creates a new Syncer
func NewSyncer(workspace Workspace, config *Config, cache *UploadCache, store *Store) *Syncer {
	return &Syncer{
		workspace: workspace,
		config:    config,
		cache:     cache,
		store:     store,
	}
}

// Sync removes artifacts built for any other assistant, then rebuilds every bundle
// and uploads the ones whose content the assistant does not already hold.
// recreate forces every bundle to be uploaded again.
func (s *Syncer) Sync(ctx context.Context, assistant AssistantID, recreate bool) (*SyncResult, error) {
	result := &SyncResult{}
	filesDir := s.workspace.FilesDir()

	if err := EnsureDir(filesDir); err != nil {
		return nil, err
	}

	stale, err := ListFiles(filesDir, artifactPatterns, []string{"*" + glob.QuoteMeta(string(assistant)) + "*"})
	if err != nil {
		return nil, err
	}
	for _, path := range stale {
		if err := RemoveStaleArtifact(s.workspace.DataDir, path); err != nil {
			return nil, err
		}
		LogDebug("Removed stale artifact %s", filepath.Base(path))
		result.Deleted = append(result.Deleted, path)
	}

	if s.store != nil {
		if n, err := s.store.PruneUploadRecords(ctx, assistant); err != nil {
			LogWarn("Pruning upload records failed: %v", err)
		} else if n > 0 {
			LogDebug("Pruned %d upload records of previous assistants", n)
		}
	}

	for _, bundle := range s.config.FileBundles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		srcDir := s.workspace.Resolve(bundle.SrcDir)
		if !IsDir(srcDir) {
			LogDebug("Skipping bundle %s: %s does not exist", bundle.BundleName, srcDir)
			result.Skipped = append(result.Skipped, bundle.BundleName)
			continue
		}

		files, err := ListFiles(srcDir, bundle.SrcGlobs, nil)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			LogDebug("Skipping bundle %s: no files match %v", bundle.BundleName, bundle.SrcGlobs)
			result.Skipped = append(result.Skipped, bundle.BundleName)
			continue
		}

		artifact := filepath.Join(filesDir, BundleFileName(s.config.Name, bundle.BundleName, assistant, bundle.DstExt))
		force := recreate || !fileExists(artifact)

		if err := BundleFiles(srcDir, files, artifact); err != nil {
			return nil, err
		}
		result.Artifacts = append(result.Artifacts, artifact)

		_, uploaded, err := s.cache.UploadIfNeeded(ctx, assistant, artifact, force)
		if err != nil {
			return nil, err
		}
		if uploaded {
			result.Uploaded++
		}
	}

	return result, nil
}

// RemoveStaleArtifact deletes path, refusing with a SafetyError when path does not
// resolve to a location strictly inside root. A refused path is left untouched.
func RemoveStaleArtifact(root, path string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return &SafetyError{Path: path, Root: root}
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return &SafetyError{Path: path, Root: root}
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "." || !filepath.IsLocal(rel) || strings.HasPrefix(rel, "..") {
		return &SafetyError{Path: path, Root: root}
	}

	if err := os.Remove(absPath); err != nil {
		return &IOError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

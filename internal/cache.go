package internal

import (
	"context"
	"errors"
	"path/filepath"
	"time"
)

// UploadCache uploads artifacts only when their content has changed since the last upload
// recorded for an assistant, and attaches new uploads to that assistant.
type UploadCache struct {
	files FileService
	store *Store
	now   func() time.Time
}

// NewUploadCache creates a new upload cache backed by store
func NewUploadCache(files FileService, store *Store) *UploadCache {
	return &UploadCache{
		files: files,
		store: store,
		now:   time.Now,
	}
}

// UploadIfNeeded uploads path for assistant unless force is false, an upload record exists
// with the same content hash, and the recorded remote file still exists. It returns the file
// holding the content and whether an upload happened.
func (c *UploadCache) UploadIfNeeded(ctx context.Context, assistant AssistantID, path string, force bool) (FileID, bool, error) {
	path = filepath.Clean(path)

	hash, err := HashFile(path)
	if err != nil {
		return "", false, err
	}

	rec, err := c.store.UploadRecord(ctx, assistant, path)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			LogWarn("Reading upload record for %s failed, treating as new: %v", path, err)
		}
		rec = nil
	}

	if !force && Unchanged(rec, hash) {
		if err := c.files.RetrieveFile(ctx, rec.FileID); err == nil {
			LogDebug("Skipping %s: unchanged (%s)", filepath.Base(path), shortHash(hash))
			return rec.FileID, false, nil
		} else if !errors.Is(err, ErrNotFound) {
			LogWarn("Checking remote file %s failed, uploading again: %v", rec.FileID, err)
		}
	}

	fileID, err := c.files.UploadFile(ctx, path)
	if err != nil {
		return "", false, &RemoteError{Op: "file.upload", Err: err}
	}

	if err := c.files.AttachFile(ctx, assistant, fileID); err != nil {
		return "", false, &RemoteError{Op: "assistant.attach_file", Err: err}
	}

	if rec != nil && rec.FileID != "" && rec.FileID != fileID {
		if err := c.files.DeleteFile(ctx, rec.FileID); err != nil && !errors.Is(err, ErrNotFound) {
			LogWarn("Deleting replaced file %s failed: %v", rec.FileID, err)
		}
	}

	err = c.store.SaveUploadRecord(ctx, UploadRecord{
		AssistantID: assistant,
		Path:        path,
		FileID:      fileID,
		ContentHash: hash,
		UploadedAt:  c.now(),
	})
	if err != nil {
		LogWarn("Recording upload of %s failed: %v", path, err)
	}

	LogInfo("Uploaded %s as %s", filepath.Base(path), fileID)
	return fileID, true, nil
}

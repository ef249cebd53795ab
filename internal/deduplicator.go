package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// HashFile returns the hex sha256 digest of the file at path
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &IOError{Op: "hash", Path: path, Err: err}
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", &IOError{Op: "hash", Path: path, Err: err}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Unchanged reports whether rec was recorded for content with the given hash
func Unchanged(rec *UploadRecord, hash string) bool {
	return rec != nil && rec.FileID != "" && rec.ContentHash == hash
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

package internal

import (
	"os"
	"path/filepath"
)

const (
	dataDirName          = ".buddy"
	filesDirName         = "files"
	conversationFileName = "conv.json"
	storeFileName        = "buddy.db"
	lockFileName         = "buddy.lock"
)

// Workspace holds the paths of a buddy directory and its private data directory
type Workspace struct {
	Dir     string // directory holding buddy.toml
	DataDir string // private data directory, owned by one session at a time
}

// NewWorkspace returns the workspace rooted at dir
func NewWorkspace(dir string) Workspace {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return Workspace{
		Dir:     dir,
		DataDir: filepath.Join(dir, dataDirName),
	}
}

// ConfigPath returns the path of buddy.toml
func (w Workspace) ConfigPath() string {
	return filepath.Join(w.Dir, ConfigFileName)
}

// FilesDir returns the directory holding bundle artifacts
func (w Workspace) FilesDir() string {
	return filepath.Join(w.DataDir, filesDirName)
}

// ConversationPath returns the persisted conversation record path
func (w Workspace) ConversationPath() string {
	return filepath.Join(w.DataDir, conversationFileName)
}

// StorePath returns the sqlite store path
func (w Workspace) StorePath() string {
	return filepath.Join(w.DataDir, storeFileName)
}

// LockPath returns the advisory lock file path
func (w Workspace) LockPath() string {
	return filepath.Join(w.DataDir, lockFileName)
}

// Resolve returns rel joined to the buddy directory
func (w Workspace) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(w.Dir, rel)
}

// Ensure creates the data and files directories
func (w Workspace) Ensure() error {
	for _, dir := range []string{w.DataDir, w.FilesDir()} {
		if err := EnsureDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDir creates dir and its parents when missing
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BundleHeaderPrefix starts the line that names each file inside a bundle
const BundleHeaderPrefix = "// ==== file path: "

// BundleFileName returns the artifact name for a bundle. The assistant id in the
// name is the invalidation key: artifacts naming another assistant are stale.
func BundleFileName(sessionName, bundleName string, assistant AssistantID, ext string) string {
	return fmt.Sprintf("%s-%s-bundle-%s.%s", sessionName, bundleName, assistant, strings.TrimPrefix(ext, "."))
}

// BundleFiles concatenates files, in order, into dst. Each file is preceded by a
// header line holding its slash-separated path relative to baseDir.
// dst is always overwritten; identical inputs produce identical bytes.
func BundleFiles(baseDir string, files []string, dst string) error {
	var buf bytes.Buffer

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return &IOError{Op: "read", Path: file, Err: err}
		}

		name := file
		if rel, err := filepath.Rel(baseDir, file); err == nil {
			name = rel
		}

		buf.WriteString(BundleHeaderPrefix)
		buf.WriteString(filepath.ToSlash(name))
		buf.WriteString("\n\n")
		buf.Write(content)
		buf.WriteString("\n\n")
	}

	if err := os.WriteFile(dst, buf.Bytes(), 0644); err != nil {
		return &IOError{Op: "write", Path: dst, Err: err}
	}

	return nil
}

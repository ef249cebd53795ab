package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// pattern is a compiled glob. Patterns without a '/' match the base name only.
type pattern struct {
	glob     glob.Glob
	baseOnly bool
}

func compilePatterns(globs []string) ([]pattern, error) {
	var patterns []pattern
	for _, g := range globs {
		candidates := []string{g}
		// "**/x" also matches x at the top level
		if rest, ok := strings.CutPrefix(g, "**/"); ok {
			candidates = append(candidates, rest)
		}
		for _, c := range candidates {
			compiled, err := glob.Compile(c, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", g, err)
			}
			patterns = append(patterns, pattern{glob: compiled, baseOnly: !strings.Contains(c, "/")})
		}
	}
	return patterns, nil
}

func matchAny(patterns []pattern, rel string) bool {
	for _, p := range patterns {
		subject := rel
		if p.baseOnly {
			subject = path.Base(rel)
		}
		if p.glob.Match(subject) {
			return true
		}
	}
	return false
}

// ListFiles returns the files below dir, in lexical order, whose slash-separated
// relative path matches one of includes (all files when includes is empty) and
// none of excludes.
func ListFiles(dir string, includes, excludes []string) ([]string, error) {
	inc, err := compilePatterns(includes)
	if err != nil {
		return nil, err
	}
	exc, err := compilePatterns(excludes)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if len(inc) > 0 && !matchAny(inc, rel) {
			return nil
		}
		if matchAny(exc, rel) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &IOError{Op: "list", Path: dir, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
		}
		return nil, &IOError{Op: "list", Path: dir, Err: err}
	}

	return files, nil
}

// IsDir reports whether p exists and is a directory
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

package testutil

import (
	"fmt"
	"testing"
)

// ConfigFixture holds the values written by CreateBuddyFixture
type ConfigFixture struct {
	Name         string
	Model        string
	Instructions string // empty means no instructions file
	Bundles      []BundleFixture
}

// BundleFixture is one [[file_bundles]] entry
type BundleFixture struct {
	Name   string
	SrcDir string
	Globs  []string
	Ext    string
}

// DefaultConfigFixture is a buddy with one bundle of text files under src/
func DefaultConfigFixture() ConfigFixture {
	return ConfigFixture{
		Name:         "test-buddy",
		Model:        "test-model",
		Instructions: "Be helpful.",
		Bundles: []BundleFixture{
			{Name: "docs", SrcDir: "src", Globs: []string{"*.txt"}, Ext: "txt"},
		},
	}
}

// CreateBuddyFixture writes buddy.toml (and instructions.md when set) into dir
func CreateBuddyFixture(t *testing.T, dir string, fx ConfigFixture) {
	t.Helper()

	toml := fmt.Sprintf("name = %q\nmodel = %q\ninstructions_file = \"instructions.md\"\n\n[run]\npoll_interval = \"1ms\"\nmax_polls = 50\ntimeout = \"5s\"\n", fx.Name, fx.Model)
	for _, b := range fx.Bundles {
		globs := ""
		for i, g := range b.Globs {
			if i > 0 {
				globs += ", "
			}
			globs += fmt.Sprintf("%q", g)
		}
		toml += fmt.Sprintf("\n[[file_bundles]]\nbundle_name = %q\nsrc_dir = %q\nsrc_globs = [%s]\ndst_ext = %q\n", b.Name, b.SrcDir, globs, b.Ext)
	}

	files := map[string]string{"buddy.toml": toml}
	if fx.Instructions != "" {
		files["instructions.md"] = fx.Instructions
	}
	WriteFiles(t, dir, files)
}

package file

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// GatherPagePaths lists the files directly inside dir whose name ends with
// one of suffixes, case-insensitively, in lexicographic filename order.
func GatherPagePaths(fs afero.Fs, dir string, suffixes ...string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if HasPageSuffix(e.Name(), suffixes...) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	res := make([]string, 0, len(names))
	for _, name := range names {
		res = append(res, filepath.Join(dir, name))
	}
	return res, nil
}

func HasPageSuffix(name string, suffixes ...string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// MXLPath swaps the extension of path for .mxl.
func MXLPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".mxl"
}

// IsOutput reports whether path is out or the .mxl written next to it.
// Relative and absolute spellings of the same file match.
func IsOutput(path, out string) bool {
	if out == "" {
		return false
	}
	p := absPath(path)
	return p == absPath(out) || p == absPath(MXLPath(out))
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// PageFilename names the document of the page at index so that
// lexicographic order matches page order for up to 999 pages.
func PageFilename(index int, suffix string) string {
	return fmt.Sprintf("page_%03d%s", index+1, suffix)
}

package util

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// WriteFileFresh writes data next to path under a fresh name and only then
// renames it onto path. An earlier file at path survives any failure.
func WriteFileFresh(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create %s: %w", dir, err)
	}

	fresh := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := afero.WriteFile(fs, fresh, data, 0o644); err != nil {
		_ = fs.Remove(fresh)
		return fmt.Errorf("could not write %s: %w", fresh, err)
	}
	if err := fs.Rename(fresh, path); err != nil {
		_ = fs.Remove(fresh)
		return fmt.Errorf("could not move %s to %s: %w", fresh, path, err)
	}
	return nil
}

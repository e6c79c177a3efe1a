package comfy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FSCatalog lists model files from a local models directory laid out the way
// the server expects (models/checkpoints, models/loras, models/vae, …).
type FSCatalog struct {
	root string
}

// NewFSCatalog creates a catalog lister rooted at a models directory.
func NewFSCatalog(root string) *FSCatalog {
	return &FSCatalog{root: root}
}

// List returns the file names under root/<catalog>, one directory level
// deep, sorted. A missing catalog directory is an empty catalog, not an
// error.
func (f *FSCatalog) List(_ context.Context, catalog string) ([]string, error) {
	dir := filepath.Join(f.root, filepath.Clean("/"+catalog))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list catalog %q: %w", catalog, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

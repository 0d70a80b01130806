// Package assetcache manages the per-owner directory of locally captured
// asset files (photos written by the camera picker before upload). The core
// only ever clears it: on "start fresh" and after a successful submission.
package assetcache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dlebedev/checkride/internal/filex"
)

type Cache struct {
	root string
}

func New(root string) *Cache {
	return &Cache{root: root}
}

// Dir returns (creating if necessary) the cache directory for one owner.
func (c *Cache) Dir(ownerID string) (string, error) {
	return filex.EnsureDir(filepath.Join(c.root, ownerID))
}

// Store writes one captured asset into the owner's cache and returns its
// file:// URI, the form the record tree carries until materialization.
func (c *Cache) Store(ownerID, name string, data []byte) (string, error) {
	dir, err := c.Dir(ownerID)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o660); err != nil {
		return "", fmt.Errorf("write cached asset %s: %w", path, err)
	}
	return "file://" + path, nil
}

// ClearAll removes every cached asset for the owner. Clearing an owner that
// has no cache directory is a no-op.
func (c *Cache) ClearAll(ownerID string) error {
	if err := os.RemoveAll(filepath.Join(c.root, ownerID)); err != nil {
		return fmt.Errorf("clear asset cache for %s: %w", ownerID, err)
	}
	return nil
}

// Package fetch downloads equipment pages from manufacturer sites, with an
// on-disk HTML cache so repeated runs do not hammer the servers, and parses
// the spec tables into structured camera and lens data.
package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is how long a cached page stays fresh.
const DefaultTTL = 8 * time.Hour

// Cache is a flat directory of downloaded pages, one file per URI, named
// by the SHA-256 of the URI.
type Cache struct {
	root string
	ttl  time.Duration
}

// NewCache returns a cache rooted at dir. A zero ttl means DefaultTTL.
func NewCache(dir string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{root: dir, ttl: ttl}
}

// DefaultCacheDir returns the per-user cache directory for cldb.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "cldb")
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string { return c.root }

// path maps a URI to its cache file.
func (c *Cache) path(uri string) string {
	sum := sha256.Sum256([]byte(uri))
	return filepath.Join(c.root, hex.EncodeToString(sum[:])+".html")
}

// Get returns the cached body for uri if present and fresh.
func (c *Cache) Get(uri string) (string, bool) {
	p := c.path(uri)
	info, err := os.Stat(p)
	if err != nil {
		return "", false
	}
	if time.Since(info.ModTime()) > c.ttl {
		return "", false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Put stores the body for uri, creating the cache directory on first use.
func (c *Cache) Put(uri, body string) error {
	if err := os.MkdirAll(c.root, 0755); err != nil {
		return err
	}
	return os.WriteFile(c.path(uri), []byte(body), 0644)
}

// Purge removes the cache directory and everything in it.
func (c *Cache) Purge() error {
	return os.RemoveAll(c.root)
}

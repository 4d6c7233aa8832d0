package store

import (
	"os"
	"path/filepath"
	"strings"
)

// Cache keys, one file per logical state bucket.
const (
	KeyAccount = "account"
	KeyHabits  = "habits"
	KeySession = "session"
)

// Cache is the local key-value mirror under the user's config dir. Reads are
// best-effort: a missing or unreadable entry is simply absent, never an error
// the caller has to handle.
type Cache struct {
	dir string
}

// DefaultCacheDir returns ~/.finquest, creating it if needed.
func DefaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".finquest")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// NewCache opens a cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the cached value for key, or false when absent or unreadable.
func (c *Cache) Get(key string) (string, bool) {
	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(string(raw))
	if v == "" {
		return "", false
	}
	return v, true
}

// Set writes the value for key.
func (c *Cache) Set(key, value string) error {
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.path(key), []byte(value), 0o600)
}

// Delete removes the entry for key. Absent entries are fine.
func (c *Cache) Delete(key string) error {
	err := os.Remove(c.path(key))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

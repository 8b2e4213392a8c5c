package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
)

// DefaultTTL is how long a filtered stylesheet stays valid
const DefaultTTL = 7 * 24 * time.Hour

// Cache stores filtered stylesheets on disk, keyed by everything that
// determines the output: stylesheet text, candidate set and options
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry is one cached filter result
type Entry struct {
	Key         string    `json:"key"`
	Timestamp   time.Time `json:"timestamp"`
	Output      string    `json:"output"`
	RulesBefore int       `json:"rules_before"`
	RulesAfter  int       `json:"rules_after"`
}

// New creates a cache rooted at dir. An empty dir disables caching.
func New(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		return &Cache{enabled: false}, nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	return &Cache{
		dir:     dir,
		ttl:     ttl,
		enabled: true,
	}, nil
}

// Enabled reports whether the cache reads and writes entries
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// Key derives a cache key from parts. Each part is length-prefixed so
// ("ab", "c") and ("a", "bc") give different keys.
func Key(parts ...string) string {
	h := blake3.New()
	for _, part := range parts {
		fmt.Fprintf(h, "%d:", len(part))
		_, _ = h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves an entry if it exists, matches key and has not expired
func (c *Cache) Get(key string) (*Entry, bool) {
	if !c.Enabled() {
		return nil, false
	}

	path := c.keyPath(key)
	data, err := os.ReadFile(path) //nolint:gosec // G304: path derived from a hex digest inside the cache dir
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Key != key {
		return nil, false
	}

	if time.Since(entry.Timestamp) > c.ttl {
		_ = os.Remove(path)
		return nil, false
	}

	return &entry, true
}

// Put stores an entry under key
func (c *Cache) Put(key string, entry Entry) error {
	if !c.Enabled() {
		return nil
	}

	entry.Key = key
	entry.Timestamp = time.Now()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return os.WriteFile(c.keyPath(key), data, 0o600)
}

// Clear removes all cache entries. The cache stays usable afterwards.
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return nil
	}
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("failed to clear cache %s: %w", c.dir, err)
	}
	return os.MkdirAll(c.dir, 0o755)
}

func (c *Cache) keyPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

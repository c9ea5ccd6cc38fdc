package countries

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// cacheFile is the on-disk layout of a cached country list.
type cacheFile struct {
	Countries []Country `json:"countries"`
	CachedAt  time.Time `json:"cached_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ListCache is a persistent cache for a downloaded country list.
type ListCache struct {
	mu    sync.RWMutex
	entry *cacheFile
	path  string
	ttl   time.Duration
	dirty bool
	now   func() time.Time
}

// NewListCache creates a cache stored at path.
func NewListCache(path string, ttl time.Duration) *ListCache {
	return &ListCache{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Load loads the cache from disk. A missing file leaves the cache empty.
func (c *ListCache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var entry cacheFile
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}

	c.entry = &entry
	c.dirty = false
	return nil
}

// Save writes the cache to disk if it changed.
func (c *ListCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty || c.entry == nil {
		return nil
	}

	data, err := json.MarshalIndent(c.entry, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Get returns the cached list if it has not expired.
func (c *ListCache) Get() ([]Country, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil || c.now().After(c.entry.ExpiresAt) {
		return nil, false
	}
	return copyList(c.entry.Countries), true
}

// GetStale returns the cached list regardless of age.
func (c *ListCache) GetStale() ([]Country, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil {
		return nil, false
	}
	return copyList(c.entry.Countries), true
}

// Set stores a freshly downloaded list.
func (c *ListCache) Set(list []Country) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entry = &cacheFile{
		Countries: copyList(list),
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.dirty = true
}

func copyList(list []Country) []Country {
	result := make([]Country, len(list))
	copy(result, list)
	return result
}

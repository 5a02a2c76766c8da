package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// indexEntry holds the parsed fields of one article file.
type indexEntry struct {
	Fields       core.Metadata `json:"fields"`
	LastModified time.Time     `json:"lastModified"`
}

// index is the cache state. Only the identifier counter is persisted;
// NextID only ever grows, so deleted identifiers are never reused.
type index struct {
	Version int                    `json:"version"`
	NextID  int64                  `json:"nextId"`
	Entries map[string]*indexEntry `json:"-"` // keyed by file name
	dirty   bool
	mu      sync.RWMutex
}

// cache keeps parsed articles between listings, invalidated by mtime.
type cache struct {
	Path  string
	index *index
}

func newCache(root, systemDir string) *cache {
	return &cache{
		Path: filepath.Join(root, systemDir, "index.json"),
		index: &index{
			Version: 1,
			NextID:  1,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the counter from disk. A missing or corrupted index starts fresh.
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}

	var loaded struct {
		NextID int64 `json:"nextId"`
	}
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil
	}
	if loaded.NextID > c.index.NextID {
		c.index.NextID = loaded.NextID
	}
	c.index.dirty = false
	return nil
}

// Save persists the counter if it changed.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

// Get returns the entry for name if it is still fresh.
func (c *cache) Get(name string, mtime time.Time) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[name]
	if !ok || !entry.LastModified.Equal(mtime) {
		return nil, false
	}
	return entry, true
}

func (c *cache) Set(name string, entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	c.index.Entries[name] = entry
}

// Prune drops entries whose files are gone.
func (c *cache) Prune(keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	for name := range c.index.Entries {
		if !keep[name] {
			delete(c.index.Entries, name)
		}
	}
}

func (c *cache) Delete(name string) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	delete(c.index.Entries, name)
}

// Reserve hands out the next identifier, skipping past any id already on disk.
func (c *cache) Reserve(seen int64) int64 {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	if seen >= c.index.NextID {
		c.index.NextID = seen + 1
	}
	id := c.index.NextID
	c.index.NextID++
	c.index.dirty = true
	return id
}

func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}

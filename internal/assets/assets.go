// Package assets handles engine asset loading and caching.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/logger"
)

// ErrNotFound is returned when no root holds the requested asset.
var ErrNotFound = errors.New("asset not found")

// Manager loads asset files from a stack of roots.
type Manager struct {
	roots []fs.FS
	names []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddDir adds a directory root to the manager.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening asset root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset root %s is not a directory", dir)
	}
	m.AddFS(dir, os.DirFS(dir))
	return nil
}

// AddFS adds a file system root under a display name.
func (m *Manager) AddFS(name string, root fs.FS) {
	m.mu.Lock()
	m.roots = append(m.roots, root)
	m.names = append(m.names, name)
	m.mu.Unlock()

	logger.Debug("asset root added", zap.String("root", name))
}

// Load loads a file from the roots. p uses forward slashes.
func (m *Manager) Load(p string) ([]byte, error) {
	p = path.Clean(p)

	// Check cache first
	if data, ok := m.cache.Get(p); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.roots[i], p)
		if err == nil {
			m.cache.Set(p, data)
			logger.Debug("asset loaded",
				zap.String("path", p),
				zap.String("root", m.names[i]),
				zap.Int("bytes", len(data)))
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s from %s: %w", p, m.names[i], err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
}

// Close drops all roots and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.names = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

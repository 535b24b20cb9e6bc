// Package assets handles showroom asset fetching, caching and glTF import.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/logger"
)

// ErrUnsupportedURL is returned for URLs the manager cannot fetch.
var ErrUnsupportedURL = errors.New("unsupported asset url")

// Manager fetches assets from local paths and http(s) URLs.
// Fetched bytes are cached by URL.
type Manager struct {
	client *http.Client
	cache  *Cache
	mu     sync.RWMutex

	log *zap.Logger
}

// NewManager creates a new asset manager using http.DefaultClient.
func NewManager() *Manager {
	return &Manager{
		client: http.DefaultClient,
		cache:  NewCache(),
		log:    logger.Named("assets"),
	}
}

// SetHTTPClient replaces the client used for remote assets.
func (m *Manager) SetHTTPClient(c *http.Client) {
	m.mu.Lock()
	m.client = c
	m.mu.Unlock()
}

// Load returns the bytes behind rawURL.
//
// A URL without a scheme, or with the file scheme, is a local path. Remote
// URLs must use http or https.
func (m *Manager) Load(ctx context.Context, rawURL string) ([]byte, error) {
	if data, ok := m.cache.Get(rawURL); ok {
		return data, nil
	}

	loc, err := parseLocation(rawURL)
	if err != nil {
		return nil, err
	}

	var data []byte
	if loc.remote {
		data, err = m.fetch(ctx, rawURL)
	} else {
		data, err = os.ReadFile(loc.path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", rawURL, err)
	}

	m.cache.Set(rawURL, data)
	m.log.Debug("asset loaded", zap.String("url", rawURL), zap.Int("bytes", len(data)))
	return data, nil
}

func (m *Manager) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Close drops every cached asset.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// location is a parsed asset URL.
type location struct {
	remote bool
	path   string
}

func parseLocation(rawURL string) (location, error) {
	if rawURL == "" {
		return location{}, fmt.Errorf("empty url: %w", ErrUnsupportedURL)
	}

	u, err := url.Parse(rawURL)
	// Windows drive letters parse as one-letter schemes.
	if err != nil || len(u.Scheme) <= 1 {
		return location{path: rawURL}, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return location{path: u.Path}, nil
	case "http", "https":
		return location{remote: true, path: u.Path}, nil
	}
	return location{}, fmt.Errorf("%s: %w", rawURL, ErrUnsupportedURL)
}

// ext returns the lower-case extension of the URL path.
func (l location) ext() string {
	return strings.ToLower(path.Ext(l.path))
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

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
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

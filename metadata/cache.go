package metadata

import (
	"sync"
	"time"

	"github.com/cinewatch/cinewatch/filesystem"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

type cacheData struct {
	Titles map[string]*Detail `json:"titles"`
}

// Cache persists fetched details on disk for a limited time.
type Cache struct {
	internal *gache.Cache[*cacheData]
	mu       sync.RWMutex
}

// NewCache returns a cache stored at path that expires after lifetime.
func NewCache(path string, lifetime time.Duration) *Cache {
	return &Cache{
		internal: gache.New[*cacheData](&gache.Options{
			Path:       path,
			Lifetime:   lifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// Get returns the cached detail for key, if any.
func (c *Cache) Get(key string) mo.Option[*Detail] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[*Detail]()
	}

	if detail, ok := data.Titles[key]; ok {
		return mo.Some(detail)
	}
	return mo.None[*Detail]()
}

// Set stores detail under key.
func (c *Cache) Set(key string, detail *Detail) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil || data.Titles == nil {
		data = &cacheData{Titles: make(map[string]*Detail)}
	}
	data.Titles[key] = detail
	return c.internal.Set(data)
}

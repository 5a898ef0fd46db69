package zone

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Cache is the JSON sidecar memoizing coordinate-to-zone lookups across
// runs. Entries are never invalidated; the file is written back only when
// the cache started out empty and got populated during this run.
type Cache struct {
	path     string
	entries  map[string]string
	wasEmpty bool
	log      *zap.Logger
}

// Key builds the cache key for a coordinate pair.
func Key(e, n float64) string {
	return strconv.FormatFloat(e, 'f', -1, 64) + "," + strconv.FormatFloat(n, 'f', -1, 64)
}

// OpenCache loads the sidecar file. A missing file yields an empty cache.
func OpenCache(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]string),
		log:     zap.L().With(zap.String("component", "zone.cache")),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		c.wasEmpty = true
		return c, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "zone: read cache %s", path)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, eris.Wrapf(err, "zone: parse cache %s", path)
	}
	c.wasEmpty = len(c.entries) == 0
	c.log.Info("cache loaded", zap.String("path", path), zap.Int("entries", len(c.entries)))
	return c, nil
}

// Get returns the cached zone for a key.
func (c *Cache) Get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Put records a zone assignment.
func (c *Cache) Put(key, value string) {
	c.entries[key] = value
}

// Len returns the number of cached assignments.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Flush writes the cache back if it was empty at open time and has been
// populated since. A pre-populated cache is never rewritten.
func (c *Cache) Flush() error {
	if !c.wasEmpty || len(c.entries) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return eris.Wrap(err, "zone: encode cache")
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return eris.Wrapf(err, "zone: write cache %s", c.path)
	}
	c.log.Info("cache flushed", zap.String("path", c.path), zap.Int("entries", len(c.entries)))
	return nil
}

// noZone marks coordinates that resolved to no zone, so the miss itself is
// cached.
const noZone = "-"

// Cached wraps a Source with the sidecar cache. A cache hit never issues a
// spatial query.
type Cached struct {
	cache *Cache
	src   Source
}

// NewCached builds the caching wrapper.
func NewCached(cache *Cache, src Source) *Cached {
	return &Cached{cache: cache, src: src}
}

// ZoneFor resolves through the cache, querying the underlying source only on
// a miss and recording the result either way.
func (c *Cached) ZoneFor(e, n float64) (string, bool) {
	key := Key(e, n)
	if v, ok := c.cache.Get(key); ok {
		if v == noZone {
			return "", false
		}
		return v, true
	}

	name, ok := c.src.ZoneFor(e, n)
	if ok {
		c.cache.Put(key, name)
	} else {
		c.cache.Put(key, noZone)
	}
	return name, ok
}

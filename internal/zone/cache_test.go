package zone

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource records how many spatial queries were issued.
type countingSource struct {
	zones   map[string]string
	queries int
}

func (s *countingSource) ZoneFor(e, n float64) (string, bool) {
	s.queries++
	v, ok := s.zones[Key(e, n)]
	return v, ok
}

func TestKey(t *testing.T) {
	assert.Equal(t, "2600000,1200000", Key(2600000, 1200000))
	assert.Equal(t, "2600000.5,1199999.25", Key(2600000.5, 1199999.25))
}

func TestOpenCache_MissingFile(t *testing.T) {
	c, err := OpenCache(filepath.Join(t.TempDir(), "zones.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	_, ok := c.Get("2600000,1200000")
	assert.False(t, ok)
}

func TestCacheFlush_WritesOnlyWhenNewlyPopulated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.json")

	c, err := OpenCache(path)
	require.NoError(t, err)
	c.Put(Key(2600000, 1200000), "Z2")
	require.NoError(t, c.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries map[string]string
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Equal(t, map[string]string{"2600000,1200000": "Z2"}, entries)

	// A pre-populated cache is never rewritten.
	c2, err := OpenCache(path)
	require.NoError(t, err)
	c2.Put(Key(1, 1), "Z1a")
	require.NoError(t, c2.Flush())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	entries = nil
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.NotContains(t, entries, Key(1, 1))
}

func TestCached_HitNeverQueriesSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.json")
	c, err := OpenCache(path)
	require.NoError(t, err)

	src := &countingSource{zones: map[string]string{Key(2600000, 1200000): "Z2"}}
	cached := NewCached(c, src)

	name, ok := cached.ZoneFor(2600000, 1200000)
	require.True(t, ok)
	assert.Equal(t, "Z2", name)
	assert.Equal(t, 1, src.queries)

	// Second lookup is served from the cache.
	name, ok = cached.ZoneFor(2600000, 1200000)
	require.True(t, ok)
	assert.Equal(t, "Z2", name)
	assert.Equal(t, 1, src.queries)
}

func TestCached_MissIsCachedToo(t *testing.T) {
	c, err := OpenCache(filepath.Join(t.TempDir(), "zones.json"))
	require.NoError(t, err)

	src := &countingSource{zones: map[string]string{}}
	cached := NewCached(c, src)

	_, ok := cached.ZoneFor(1, 2)
	assert.False(t, ok)
	_, ok = cached.ZoneFor(1, 2)
	assert.False(t, ok)
	assert.Equal(t, 1, src.queries)
}

func TestCached_Idempotence(t *testing.T) {
	// Running the same lookups against a flushed cache reproduces the same
	// assignments without touching the source again.
	path := filepath.Join(t.TempDir(), "zones.json")

	c, err := OpenCache(path)
	require.NoError(t, err)
	src := &countingSource{zones: map[string]string{
		Key(2600000, 1200000): "Z2",
		Key(2700000, 1250000): "Z3a",
	}}
	cached := NewCached(c, src)
	cached.ZoneFor(2600000, 1200000)
	cached.ZoneFor(2700000, 1250000)
	require.NoError(t, c.Flush())
	firstQueries := src.queries

	c2, err := OpenCache(path)
	require.NoError(t, err)
	cached2 := NewCached(c2, src)

	name, ok := cached2.ZoneFor(2600000, 1200000)
	require.True(t, ok)
	assert.Equal(t, "Z2", name)
	name, ok = cached2.ZoneFor(2700000, 1250000)
	require.True(t, ok)
	assert.Equal(t, "Z3a", name)
	assert.Equal(t, firstQueries, src.queries)
}

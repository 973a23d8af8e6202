package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetPurge(t *testing.T) {
	c, err := New(1<<20, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	c.Set(c.Generation(), "/api/properties", []byte(`[]`))
	got, ok := c.Get("/api/properties")
	require.True(t, ok)
	assert.Equal(t, `[]`, string(got))

	c.Purge()
	_, ok = c.Get("/api/properties")
	assert.False(t, ok)
}

func TestNilCache(t *testing.T) {
	var c *Cache
	c.Set(c.Generation(), "k", []byte("v"))
	_, ok := c.Get("k")
	assert.False(t, ok)
	c.Purge()
	c.Close()
}

func TestSetAfterPurgeIsDropped(t *testing.T) {
	c, err := New(1<<20, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	// a list read started before a write finishes after its purge
	gen := c.Generation()
	c.Purge()
	c.Set(gen, "properties?", []byte(`[]`))

	_, ok := c.Get("properties?")
	assert.False(t, ok)

	c.Set(c.Generation(), "properties?", []byte(`[{"id":"1"}]`))
	got, ok := c.Get("properties?")
	require.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, string(got))
}

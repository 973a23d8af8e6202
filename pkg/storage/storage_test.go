package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1773133200000)

	key := ObjectKey("Living Room (1).JPG", now)
	assert.Regexp(t, regexp.MustCompile(`^1773133200000-[0-9a-f]{8}-living-room-1\.jpg$`), key)

	other := ObjectKey("Living Room (1).JPG", now)
	assert.NotEqual(t, key, other)

	assert.True(t, strings.HasSuffix(ObjectKey("../../.webp", now), "-image.webp"))
}

func TestKeyFromURL(t *testing.T) {
	assert.Equal(t, "a.webp", keyFromURL("https://cdn.example.com/property-images/", "https://cdn.example.com/property-images/a.webp"))
	assert.Equal(t, "https://cdn.example.com/property-images/a.webp", joinURL("https://cdn.example.com/property-images/", "a.webp"))
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads")
	ctx := context.Background()

	url, err := store.Put(ctx, "123-abc-house.webp", strings.NewReader("data"), "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/123-abc-house.webp", url)

	data, err := os.ReadFile(filepath.Join(dir, "123-abc-house.webp"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	require.NoError(t, store.Delete(ctx, url))
	require.NoError(t, store.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(dir, "123-abc-house.webp"))
	assert.True(t, os.IsNotExist(err))
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageImplementations(t *testing.T) {
	stores := map[string]Storage{
		"memory": NewMemoryStorage(),
		"file":   NewFileStorage(t.TempDir()),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok := store.GetItem(SessionKey)
			assert.False(t, ok)

			require.NoError(t, store.SetItem(SessionKey, `{"token":"t"}`))
			v, ok := store.GetItem(SessionKey)
			require.True(t, ok)
			assert.Equal(t, `{"token":"t"}`, v)

			require.NoError(t, store.RemoveItem(SessionKey))
			require.NoError(t, store.RemoveItem(SessionKey))
			_, ok = store.GetItem(SessionKey)
			assert.False(t, ok)
		})
	}
}

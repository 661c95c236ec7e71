package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	rel, err := store.Save("2026/schedule-1.csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("2026", "schedule-1.csv"), rel)

	raw, err := os.ReadFile(store.Path(rel))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(raw))

	_, err = os.Stat(store.Path(rel) + ".part")
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../out.csv", "a/../../out.csv", "/etc/out.csv"} {
		_, err := store.Save(name, []byte("x"))
		assert.Error(t, err, name)
	}

	rel, err := store.Save("a/../out.csv", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "out.csv", rel)
}

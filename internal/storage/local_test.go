package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_StoreAndRetrieve(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Store("runs/run_1.md", []byte("# archived run"))
	require.NoError(t, err)

	data, err := store.Retrieve("runs/run_1.md")
	require.NoError(t, err)
	assert.Equal(t, []byte("# archived run"), data)
}

func TestLocalStorage_List(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Store("runs/run_2.md", []byte("b")))
	require.NoError(t, store.Store("runs/run_1.md", []byte("a")))
	require.NoError(t, store.Store("other/file.txt", []byte("c")))

	names, err := store.List("runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/run_1.md", "runs/run_2.md"}, names)

	all, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocalStorage_Delete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Store("run.md", []byte("x")))
	require.NoError(t, store.Delete("run.md"))

	_, err = store.Retrieve("run.md")
	assert.Error(t, err)

	names, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStorage_RejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name     string
		filename string
	}{
		{name: "parent traversal", filename: "../outside.md"},
		{name: "nested traversal", filename: "runs/../../outside.md"},
		{name: "absolute path", filename: "/etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.Store(tt.filename, []byte("x")))
		})
	}
}

func TestNewLocalStorage_RequiresBaseDir(t *testing.T) {
	_, err := NewLocalStorage("")
	assert.Error(t, err)
}

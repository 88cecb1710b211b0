package assets

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPriority(t *testing.T) {
	m := NewManager()
	m.AddFS("base", fstest.MapFS{
		"models/a.md5mesh": {Data: []byte("base a")},
		"models/b.md5mesh": {Data: []byte("base b")},
	})
	m.AddFS("mod", fstest.MapFS{
		"models/a.md5mesh": {Data: []byte("mod a")},
	})

	tests := []struct {
		path string
		want string
	}{
		{"models/a.md5mesh", "mod a"},
		{"models/b.md5mesh", "base b"},
		{"models/../models/b.md5mesh", "base b"},
	}
	for _, tt := range tests {
		got, err := m.Load(tt.path)
		require.NoError(t, err, tt.path)
		if string(got) != tt.want {
			t.Errorf("Load(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadNotFound(t *testing.T) {
	m := NewManager()
	m.AddFS("base", fstest.MapFS{})

	_, err := m.Load("missing.tga")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCaches(t *testing.T) {
	root := fstest.MapFS{"t.png": {Data: []byte("png")}}
	m := NewManager()
	m.AddFS("base", root)

	_, err := m.Load("t.png")
	require.NoError(t, err)
	delete(root, "t.png")

	got, err := m.Load("t.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(got))

	hits, misses := m.cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	m.Close()
	_, err = m.Load("t.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "textures", "sky.png"), []byte("sky"), 0644))

	m := NewManager()
	require.NoError(t, m.AddDir(dir))

	got, err := m.Load("textures/sky.png")
	require.NoError(t, err)
	assert.Equal(t, "sky", string(got))

	assert.Error(t, m.AddDir(filepath.Join(dir, "nope")))
	assert.Error(t, m.AddDir(filepath.Join(dir, "textures", "sky.png")))
}

package texture

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())
}

func TestBuildIndexAndResolvePath(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "textures", "Stone_Diffuse.png"))
	writePNG(t, filepath.Join(dir, "other", "wood.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	idx := BuildIndex(dir)
	assert.Equal(t, 2, idx.Len(), "non-image files stay out of the index")

	// stem lookup is case-insensitive and ignores path prefixes
	p, ok := idx.ResolvePath("stone_diffuse")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "textures", "Stone_Diffuse.png"), p)

	p, ok = idx.ResolvePath(`C:\proj\maps\STONE_DIFFUSE.tga`)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "textures", "Stone_Diffuse.png"), p)

	_, ok = idx.ResolvePath("missing")
	assert.False(t, ok)
}

func TestBuildIndexFirstDirectoryWins(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writePNG(t, filepath.Join(a, "tex.png"))
	writePNG(t, filepath.Join(b, "tex.png"))

	idx := BuildIndex(a, b)
	p, ok := idx.ResolvePath("tex")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(a, "tex.png"), p)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "stone.png")
	writePNG(t, abs)
	writePNG(t, filepath.Join(dir, "rel", "wood.png"))

	p, ok := Resolve(abs, "", nil)
	require.True(t, ok)
	assert.Equal(t, abs, p)

	p, ok = Resolve("rel/wood.png", dir, nil)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "rel", "wood.png"), p)

	// neither on disk nor indexed
	_, ok = Resolve("nowhere.png", dir, nil)
	assert.False(t, ok)

	// index fallback by stem
	idx := BuildIndex(dir)
	p, ok = Resolve("missing/dir/WOOD.png", "", idx)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "rel", "wood.png"), p)
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "ok.png")
	writePNG(t, good)
	assert.NoError(t, Probe(good))

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not a png"), 0o644))
	assert.Error(t, Probe(bad))

	assert.Error(t, Probe(filepath.Join(dir, "absent.png")))
}

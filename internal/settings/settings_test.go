package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, "tempfile", s.Transport)
	assert.True(t, s.ApplyTransform)
	assert.False(t, s.ReplaceMesh)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "settings.toml")
	want := Settings{
		Transport:        "clipboard",
		TempFilePath:     "/tmp/alt.json",
		NewMesh:          true,
		ReplaceMesh:      false,
		ReplaceMaterials: true,
		ApplyTransform:   false,
	}
	require.NoError(t, Save(want, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("new_mesh = true\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.True(t, s.NewMesh)
	assert.Equal(t, "tempfile", s.Transport, "unset keys keep their defaults")
	assert.True(t, s.ApplyTransform)
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("transport = [broken"), 0o644))

	s, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), s)
}

func TestResolveFlagOverrides(t *testing.T) {
	s := Default()
	s.Resolve(Flags{Transport: "clipboard"})
	assert.Equal(t, "clipboard", s.Transport)
	assert.Empty(t, s.TempFilePath)

	s.Resolve(Flags{TempFilePath: "/tmp/x.json"})
	assert.Equal(t, "clipboard", s.Transport, "empty flags leave values alone")
	assert.Equal(t, "/tmp/x.json", s.TempFilePath)
}

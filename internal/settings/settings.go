// Package settings persists the user-facing knobs: which transport the
// copy/paste commands use, and the paste-time flags. Commands read the
// file once per invocation; CLI flags override file values.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the persisted state. The zero value is not the defaults;
// use Default.
type Settings struct {
	Transport        string `toml:"transport"` // "clipboard" or "tempfile"
	TempFilePath     string `toml:"tempfile_path,omitempty"`
	NewMesh          bool   `toml:"new_mesh"`
	ReplaceMesh      bool   `toml:"replace_mesh"`
	ReplaceMaterials bool   `toml:"replace_materials"`
	ApplyTransform   bool   `toml:"apply_transform"`
}

func Default() Settings {
	return Settings{
		Transport:      "tempfile",
		ApplyTransform: true,
	}
}

// DefaultPath is the per-user settings file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "mesh-clipboard-settings.toml"
	}
	return filepath.Join(dir, "mesh-clipboard", "settings.toml")
}

// Load reads settings from path. A missing file is not an error: the
// defaults apply until the user saves something.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("settings: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("settings: parse %s: %w", path, err)
	}
	if s.Transport == "" {
		s.Transport = Default().Transport
	}
	return s, nil
}

// Save writes settings to path, creating parent directories.
func Save(s Settings, path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("settings: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	return nil
}

// Flags holds CLI flag values that override persisted settings.
type Flags struct {
	Transport    string
	TempFilePath string
}

// Resolve applies non-empty flag values over the loaded settings.
func (s *Settings) Resolve(f Flags) {
	if f.Transport != "" {
		s.Transport = f.Transport
	}
	if f.TempFilePath != "" {
		s.TempFilePath = f.TempFilePath
	}
}

// Package texture resolves image references from material texture slots
// to filesystem paths and verifies they are decodable images.
package texture

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tga":  true,
	".bmp":  true,
	".webp": true,
}

// Index maps lowercase image stems to filesystem paths, so texture slots
// can reference an image by bare name regardless of where the host
// project keeps it.
type Index struct {
	entries map[string]string // stem → full path
}

// BuildIndex scans the given directories recursively for image files.
// Earlier directories win on stem collisions.
func BuildIndex(dirs ...string) *Index {
	idx := &Index{entries: make(map[string]string)}

	for _, dir := range dirs {
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if !imageExts[ext] {
				return nil
			}
			stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			if _, exists := idx.entries[stem]; !exists {
				idx.entries[stem] = path
			}
			return nil
		})
	}
	return idx
}

// ResolvePath returns the filesystem path for an image reference, or
// ("", false). References may carry path prefixes and backslashes.
func (idx *Index) ResolvePath(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Resolve locates an image for a texture slot: absolute paths and paths
// relative to baseDir are checked on disk first, then the index (when
// present) is consulted by stem. Returns the resolved path.
func Resolve(image, baseDir string, idx *Index) (string, bool) {
	image = strings.ReplaceAll(image, "\\", "/")

	if filepath.IsAbs(image) {
		if _, err := os.Stat(image); err == nil {
			return image, true
		}
	} else if baseDir != "" {
		joined := filepath.Join(baseDir, image)
		if _, err := os.Stat(joined); err == nil {
			return joined, true
		}
	} else if _, err := os.Stat(image); err == nil {
		return image, true
	}

	if idx != nil {
		return idx.ResolvePath(image)
	}
	return "", false
}

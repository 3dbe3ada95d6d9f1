// Package transport moves encoded documents through the OS clipboard or
// a temp file. The transport carries opaque bytes; encoding choice is the
// codec's business, except that clipboard payloads must be UTF-8 text.
package transport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// ErrTransport wraps any clipboard/file read or write failure. The
// surrounding operation aborts before touching the host.
var ErrTransport = errors.New("transport failed")

// Transport kinds persisted in settings.
const (
	KindClipboard = "clipboard"
	KindTempFile  = "tempfile"
)

type Transport interface {
	Read() ([]byte, error)
	Write([]byte) error
	// Path returns the backing file path, or "" for the clipboard. The
	// codec uses it for the file-extension encoding convention.
	Path() string
}

// New builds the transport for a settings kind. path overrides the
// default temp-file location when non-empty.
func New(kind, path string) (Transport, error) {
	switch kind {
	case KindClipboard, "":
		return Clipboard{}, nil
	case KindTempFile:
		if path == "" {
			path = DefaultTempPath()
		}
		return TempFile{path: path}, nil
	default:
		return nil, fmt.Errorf("%w: unknown transport kind %q", ErrTransport, kind)
	}
}

// DefaultTempPath is the well-known interchange location both paired
// applications poll.
func DefaultTempPath() string {
	return filepath.Join(os.TempDir(), "cpmf_clipboard.json")
}

// Clipboard moves documents through the OS clipboard as UTF-8 text.
type Clipboard struct{}

func (Clipboard) Read() ([]byte, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read clipboard: %v", ErrTransport, err)
	}
	return []byte(text), nil
}

func (Clipboard) Write(data []byte) error {
	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("%w: write clipboard: %v", ErrTransport, err)
	}
	return nil
}

func (Clipboard) Path() string { return "" }

// TempFile moves documents through a file path.
type TempFile struct {
	path string
}

func NewTempFile(path string) TempFile {
	if path == "" {
		path = DefaultTempPath()
	}
	return TempFile{path: path}
}

func (t TempFile) Read() ([]byte, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrTransport, t.path, err)
	}
	return data, nil
}

func (t TempFile) Write(data []byte) error {
	if dir := filepath.Dir(t.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: mkdir %s: %v", ErrTransport, dir, err)
		}
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrTransport, t.path, err)
	}
	return nil
}

func (t TempFile) Path() string { return t.path }

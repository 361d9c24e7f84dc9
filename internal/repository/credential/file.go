package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/learning-layers/ldocs-updatetime/internal/domain/notification"
)

// Source provides the API key.
type Source interface {
	Load(ctx context.Context) (notification.APIKey, error)
}

// FileSource reads the API key from a file on disk.
type FileSource struct {
	// path is the filesystem location of the key file.
	path string
}

// ErrNotFound is returned when the key file does not exist.
var ErrNotFound = errors.New("api key file not found")

// NewFileSource creates a source reading the key at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path: filepath.Clean(path),
	}
}

// Path returns the cleaned key file location.
func (s *FileSource) Path() string {
	return s.path
}

// Load reads the key. The contents are used verbatim, trailing newline included,
// because the API compares the key byte for byte with its own setting.
func (s *FileSource) Load(_ context.Context) (notification.APIKey, error) {
	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}

		return "", fmt.Errorf("read api key file: %w", err)
	}

	return notification.APIKey(contents), nil
}

package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// LocalURLPrefix is where the server exposes LocalStore files.
const LocalURLPrefix = "/uploads/"

// LocalStore keeps uploads on disk for development setups without a blob
// token. Files are served statically under LocalURLPrefix.
type LocalStore struct {
	Dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir}
}

func (s *LocalStore) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	fileName := ObjectName(name)
	path := filepath.Join(s.Dir, fileName)
	if err := atomic.WriteFile(path, r); err != nil {
		return "", fmt.Errorf("write %s: %w", fileName, err)
	}
	// atomic.WriteFile leaves temp-file permissions on new files
	if err := os.Chmod(path, 0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", fileName, err)
	}
	return LocalURLPrefix + fileName, nil
}

func (s *LocalStore) Owns(url string) bool {
	return strings.HasPrefix(url, LocalURLPrefix)
}

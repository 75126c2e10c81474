// Package blob stores uploaded photos and invoices and hands back the public
// URL that incident and maintenance records link to.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxBytes is the upload size limit.
const DefaultMaxBytes int64 = 5 << 20

// Prefix is the object name prefix for incident attachments.
const Prefix = "incidencias"

var (
	ErrUnsupportedType = errors.New("file must be an image or a PDF")
	ErrTooLarge        = errors.New("file exceeds the upload size limit")
)

// Store persists an upload and returns its URL. Owns reports whether a URL
// was produced by this store, which is how freshly uploaded invoices are told
// apart from links echoed back by a client.
type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Owns(url string) bool
}

// Validate accepts images and PDFs up to max bytes. A max of zero applies
// DefaultMaxBytes.
func Validate(contentType string, size, max int64) error {
	if max <= 0 {
		max = DefaultMaxBytes
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "application/pdf") {
		return fmt.Errorf("%q: %w", contentType, ErrUnsupportedType)
	}
	if size > max {
		return fmt.Errorf("%d bytes: %w", size, ErrTooLarge)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ObjectName builds a collision-free file name from the client's file name.
func ObjectName(name string) string {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = unsafeChars.ReplaceAllString(base, "_")
	if base == "" {
		base = "file"
	}
	return uuid.NewString() + "-" + base
}

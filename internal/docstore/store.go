// Package docstore models the external document store the service reads
// incidents and maintenance tasks from: pages grouped in collections, each
// page carrying a bag of typed properties.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("docstore: page not found")

// UpstreamError wraps a failed call to the backing store.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("docstore %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("docstore %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

type Parent struct {
	Type       string `json:"type,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

type Page struct {
	ID          string     `json:"id"`
	Parent      Parent     `json:"parent"`
	CreatedTime time.Time  `json:"created_time"`
	Properties  Properties `json:"properties"`
}

type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// TimestampCreated sorts on the page creation time instead of a property.
const TimestampCreated = "created_time"

type Sort struct {
	Property  string        `json:"property,omitempty"`
	Timestamp string        `json:"timestamp,omitempty"`
	Direction SortDirection `json:"direction"`
}

// Store is the document store collaborator. Update applies props as one
// partial patch: keys absent from props are left untouched.
type Store interface {
	Query(ctx context.Context, collectionID string, sorts ...Sort) ([]Page, error)
	Retrieve(ctx context.Context, id string) (*Page, error)
	Create(ctx context.Context, collectionID string, props Properties) (*Page, error)
	Update(ctx context.Context, id string, props Properties) (*Page, error)
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

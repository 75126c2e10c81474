package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps pages in process. It backs the memory driver and the
// service tests.
type MemoryStore struct {
	mu    sync.RWMutex
	pages map[string]*Page
	order []string

	// Now stamps created pages; defaults to time.Now.
	Now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pages: make(map[string]*Page), Now: time.Now}
}

// Put inserts a page as-is, generating an id when empty. Used for seeding.
func (m *MemoryStore) Put(collectionID string, page Page) *Page {
	m.mu.Lock()
	defer m.mu.Unlock()
	if page.ID == "" {
		page.ID = uuid.NewString()
	}
	if page.CreatedTime.IsZero() {
		page.CreatedTime = m.now()
	}
	page.Parent = Parent{Type: "database_id", DatabaseID: collectionID}
	page.Properties = Properties{}.Merge(page.Properties)
	if _, exists := m.pages[page.ID]; !exists {
		m.order = append(m.order, page.ID)
	}
	m.pages[page.ID] = &page
	return clonePage(&page)
}

// Insert stores a page under a fixed id unless that id already exists, in
// which case the stored page is returned untouched.
func (m *MemoryStore) Insert(ctx context.Context, collectionID, id string, created time.Time, props Properties) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	existing, ok := m.pages[id]
	m.mu.RUnlock()
	if ok {
		return clonePage(existing), nil
	}
	return m.Put(collectionID, Page{ID: id, CreatedTime: created, Properties: props}), nil
}

func (m *MemoryStore) Query(ctx context.Context, collectionID string, sorts ...Sort) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	pages := make([]Page, 0)
	for _, id := range m.order {
		p := m.pages[id]
		if p.Parent.DatabaseID == collectionID {
			pages = append(pages, *clonePage(p))
		}
	}
	m.mu.RUnlock()
	SortPages(pages, sorts)
	return pages, nil
}

func (m *MemoryStore) Retrieve(ctx context.Context, id string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePage(p), nil
}

func (m *MemoryStore) Create(ctx context.Context, collectionID string, props Properties) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if collectionID == "" {
		return nil, &UpstreamError{Op: "create", Err: fmt.Errorf("empty collection id")}
	}
	return m.Put(collectionID, Page{Properties: props}), nil
}

// Update merges props into the page under the write lock, so a patch is
// never observed half applied.
func (m *MemoryStore) Update(ctx context.Context, id string, props Properties) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Properties = p.Properties.Merge(props)
	return clonePage(p), nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func clonePage(p *Page) *Page {
	c := *p
	c.Properties = Properties{}.Merge(p.Properties)
	return &c
}

// SortPages orders pages the way the hosted store does: by each sort in
// turn, with pages missing the sort property placed last.
func SortPages(pages []Page, sorts []Sort) {
	if len(sorts) == 0 {
		return
	}
	sort.SliceStable(pages, func(i, j int) bool {
		for _, s := range sorts {
			a, aok := sortKey(pages[i], s)
			b, bok := sortKey(pages[j], s)
			switch {
			case aok && !bok:
				return true
			case !aok && bok:
				return false
			case !aok && !bok:
				continue
			}
			if c := strings.Compare(a, b); c != 0 {
				if s.Direction == Descending {
					return c > 0
				}
				return c < 0
			}
		}
		return false
	})
}

func sortKey(p Page, s Sort) (string, bool) {
	if s.Timestamp == TimestampCreated {
		return p.CreatedTime.UTC().Format("2006-01-02T15:04:05.000000000"), true
	}
	prop, ok := p.Properties[s.Property]
	if !ok {
		return "", false
	}
	switch prop.Type {
	case TypeDate:
		return p.Properties.DateStart(s.Property)
	case TypeNumber:
		n, ok := p.Properties.Number(s.Property)
		return fmt.Sprintf("%020.4f", n), ok
	case TypeSelect, TypeStatus:
		return p.Properties.SelectName(s.Property)
	default:
		return p.Properties.Text(s.Property)
	}
}

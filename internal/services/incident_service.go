package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/propmaint/backend/internal/cache"
	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/logger"
	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/records"
)

const incidentsCacheKey = "incidencias"

// ErrNoCollection is returned when no store collection is configured for a
// write.
var ErrNoCollection = errors.New("no collection configured")

type IncidentService struct {
	store       docstore.Store
	collections records.Collections
	cache       *cache.Cache[models.Incident]

	// OwnsUpload reports whether a URL was produced by this system's own
	// upload endpoint. Invoice URLs it rejects are dropped from updates.
	OwnsUpload func(url string) bool
	Now        func() time.Time
}

// NewIncidentService creates a new incident service
func NewIncidentService(store docstore.Store, collections records.Collections, ttl time.Duration) *IncidentService {
	return &IncidentService{
		store:       store,
		collections: collections,
		cache:       cache.New[models.Incident](ttl),
		Now:         time.Now,
	}
}

// Cache exposes the list cache so tests can drive its clock.
func (s *IncidentService) Cache() *cache.Cache[models.Incident] { return s.cache }

// List returns the incidents of every configured collection, newest report
// first.
func (s *IncidentService) List(ctx context.Context) ([]models.Incident, error) {
	return s.cache.GetAll(ctx, incidentsCacheKey, s.fetchAll)
}

func (s *IncidentService) fetchAll(ctx context.Context) ([]models.Incident, error) {
	ids := s.collections.IncidentCollections()
	perCollection := make([][]models.Incident, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			pages, err := s.store.Query(gctx, id, docstore.Sort{
				Property:  records.PropReportDate,
				Direction: docstore.Descending,
			})
			if err != nil {
				return fmt.Errorf("query incidents of %s: %w", id, err)
			}
			category := s.collections.CategoryFor(id)
			out := make([]models.Incident, 0, len(pages))
			for j := range pages {
				out = append(out, records.IncidentFromPage(&pages[j], category))
			}
			perCollection[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.WithError(err, "incident_service").Error("Failed to list incidents")
		return nil, err
	}

	all := make([]models.Incident, 0)
	for _, part := range perCollection {
		all = append(all, part...)
	}
	sortByReportDate(all)
	return all, nil
}

// sortByReportDate orders newest first; undated incidents sink to the end.
func sortByReportDate(incidents []models.Incident) {
	sort.SliceStable(incidents, func(i, j int) bool {
		a, b := incidents[i].ReportDate, incidents[j].ReportDate
		switch {
		case a == nil || a.IsZero():
			return false
		case b == nil || b.IsZero():
			return true
		}
		return a.After(*b)
	})
}

// Get returns nil without error when the id does not resolve.
func (s *IncidentService) Get(ctx context.Context, id string) (*models.Incident, error) {
	page, err := s.store.Retrieve(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	inc := records.IncidentFromPage(page, s.collections.CategoryFor(page.Parent.DatabaseID))
	return &inc, nil
}

// Create validates the report and writes it to the collection of its
// category. Nothing is written when validation fails.
func (s *IncidentService) Create(ctx context.Context, in models.IncidentInput) (*models.Incident, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	collectionID, ok := s.collections.IncidentCollection(in.Category)
	if !ok {
		return nil, fmt.Errorf("incidents of %s: %w", in.Category, ErrNoCollection)
	}
	defer s.cache.Invalidate(incidentsCacheKey)

	page, err := s.store.Create(ctx, collectionID, records.IncidentCreateProperties(in, s.now()))
	if err != nil {
		logger.WithError(err, "incident_service").Error("Failed to create incident")
		return nil, err
	}
	inc := records.IncidentFromPage(page, s.collections.CategoryFor(collectionID))
	logger.WithIncident(inc.ID, string(inc.Category)).Info("Incident created")
	return &inc, nil
}

// Update applies a partial update on behalf of role. Fields the role may not
// edit are dropped, as are invoice URLs that did not come from this system's
// upload endpoint. The cache is invalidated even when the write fails.
func (s *IncidentService) Update(ctx context.Context, id string, u models.IncidentUpdate, role models.Role) (*models.Incident, error) {
	u = u.RestrictTo(role)
	if s.OwnsUpload != nil && len(u.Invoices) > 0 {
		fresh := make([]string, 0, len(u.Invoices))
		for _, url := range u.Invoices {
			if s.OwnsUpload(url) {
				fresh = append(fresh, url)
			}
		}
		u.Invoices = fresh
	}
	defer s.cache.Invalidate(incidentsCacheKey)

	page, err := s.store.Update(ctx, id, records.IncidentPatch(u))
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			logger.WithError(err, "incident_service").Error("Failed to update incident")
		}
		return nil, err
	}
	inc := records.IncidentFromPage(page, s.collections.CategoryFor(page.Parent.DatabaseID))
	logger.WithIncident(inc.ID, string(inc.Category)).WithField("role", role).Info("Incident updated")
	return &inc, nil
}

func (s *IncidentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

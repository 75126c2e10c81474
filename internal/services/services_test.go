package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/records"
	"github.com/propmaint/backend/internal/schedule"
)

// countingStore records the calls that reach the backing store.
type countingStore struct {
	*docstore.MemoryStore
	mu       sync.Mutex
	queries  int
	updates  []docstore.Properties
	failNext error
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: docstore.NewMemoryStore()}
}

func (c *countingStore) Query(ctx context.Context, id string, sorts ...docstore.Sort) ([]docstore.Page, error) {
	c.mu.Lock()
	c.queries++
	c.mu.Unlock()
	return c.MemoryStore.Query(ctx, id, sorts...)
}

func (c *countingStore) Update(ctx context.Context, id string, props docstore.Properties) (*docstore.Page, error) {
	c.mu.Lock()
	c.updates = append(c.updates, props)
	err := c.failNext
	c.failNext = nil
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.MemoryStore.Update(ctx, id, props)
}

func (c *countingStore) queryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queries
}

var testCollections = records.Collections{
	Incidents: map[models.Category]string{
		models.CategoryTourist:   "tur-1",
		models.CategoryCorporate: "corp-1",
		models.CategoryVitarooms: "vita-1",
	},
	Maintenance: "mant-1",
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newIncidentService(store docstore.Store, clk *fakeClock) *IncidentService {
	svc := NewIncidentService(store, testCollections, 30*time.Second)
	svc.Now = clk.Now
	svc.Cache().Now = clk.Now
	return svc
}

func newMaintenanceService(store docstore.Store, clk *fakeClock) *MaintenanceService {
	svc := NewMaintenanceService(store, testCollections.Maintenance, 30*time.Second)
	svc.Now = clk.Now
	svc.Cache().Now = clk.Now
	return svc
}

func TestCreateIncident(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 4, 3, 10, 0, 0, 0, time.UTC)}
	store := newCountingStore()
	svc := newIncidentService(store, clk)

	inc, err := svc.Create(context.Background(), models.IncidentInput{
		Building:    "Juan Bravo",
		Apartment:   "2A",
		Description: "leak",
		Urgency:     models.UrgencyUrgent,
		Category:    models.CategoryTourist,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, inc.Status)
	assert.Equal(t, models.CategoryTourist, inc.Category)
	assert.Equal(t, models.UrgencyUrgent, inc.Urgency)
	require.NotNil(t, inc.ReportDate)
	assert.Equal(t, "2024-04-03", inc.ReportDate.String())
	assert.Contains(t, inc.Title, "Juan Bravo")
	assert.Contains(t, inc.Title, "2A")
	assert.Contains(t, inc.Title, "3/4/2024")

	page, err := store.Retrieve(context.Background(), inc.ID)
	require.NoError(t, err)
	assert.Equal(t, "tur-1", page.Parent.DatabaseID)
}

func TestCreateIncidentValidation(t *testing.T) {
	store := newCountingStore()
	svc := newIncidentService(store, &fakeClock{t: time.Now()})

	_, err := svc.Create(context.Background(), models.IncidentInput{Building: "Abada"})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"apartamento", "descripcion", "urgencia", "categoria"}, verr.Fields)

	pages, _ := store.MemoryStore.Query(context.Background(), "tur-1")
	assert.Empty(t, pages)
}

func TestCreateIncidentKeepsCategoryCollection(t *testing.T) {
	store := newCountingStore()
	svc := newIncidentService(store, &fakeClock{t: time.Now()})

	inc, err := svc.Create(context.Background(), models.IncidentInput{
		Building:    "Madera 29",
		Apartment:   "4 I",
		Description: "door",
		Urgency:     models.UrgencyLow,
		Category:    models.CategoryCorporate,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCorporate, inc.Category)
	assert.Equal(t, "Madera 29", inc.Building)

	got, err := svc.Get(context.Background(), inc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCorporate, got.Category)
}

func TestListIncidentsIsCached(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 4, 3, 10, 0, 0, 0, time.UTC)}
	store := newCountingStore()
	store.Put("tur-1", docstore.Page{ID: "a", Properties: docstore.Properties{records.PropReportDate: docstore.Date("2024-01-01")}})
	store.Put("corp-1", docstore.Page{ID: "b", Properties: docstore.Properties{records.PropReportDate: docstore.Date("2024-03-01")}})
	store.Put("vita-1", docstore.Page{ID: "c", Properties: docstore.Properties{}})
	svc := newIncidentService(store, clk)
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, store.queryCount())
	assert.Equal(t, []string{"b", "a", "c"}, incidentIDs(first))
	assert.Equal(t, models.CategoryCorporate, first[0].Category)
	assert.Equal(t, models.CategoryVitarooms, first[2].Category)

	clk.Advance(20 * time.Second)
	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, store.queryCount())
	assert.Equal(t, first, second)

	clk.Advance(10 * time.Second)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, store.queryCount())
}

func TestIncidentWritesInvalidateList(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 4, 3, 10, 0, 0, 0, time.UTC)}
	store := newCountingStore()
	svc := newIncidentService(store, clk)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, store.queryCount())

	inc, err := svc.Create(ctx, models.IncidentInput{
		Building: "Abada", Apartment: "5", Description: "x",
		Urgency: models.UrgencyLow, Category: models.CategoryTourist,
	})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, store.queryCount())
	assert.Len(t, list, 1)

	status := models.StatusInProgress
	_, err = svc.Update(ctx, inc.ID, models.IncidentUpdate{Status: &status}, models.RoleTechnician)
	require.NoError(t, err)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, store.queryCount())
	assert.Equal(t, models.StatusInProgress, list[0].Status)

	// a failed write still drops the snapshot
	store.failNext = &docstore.UpstreamError{Op: "update", StatusCode: 502, Err: errors.New("bad gateway")}
	_, err = svc.Update(ctx, inc.ID, models.IncidentUpdate{Status: &status}, models.RoleTechnician)
	require.Error(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, store.queryCount())
}

func TestUpdateIncidentRestrictsTechnicianFields(t *testing.T) {
	store := newCountingStore()
	page := store.Put("tur-1", docstore.Page{Properties: docstore.Properties{}})
	svc := newIncidentService(store, &fakeClock{t: time.Now()})
	svc.OwnsUpload = func(url string) bool { return strings.Contains(url, "vercel-storage.com") }

	tech := "Ana"
	approved := true
	notes := "llamar al seguro"
	update := models.IncidentUpdate{
		Technician:     &tech,
		BudgetApproved: &approved,
		ManagerNotes:   &notes,
		Invoices: []string{
			"https://x.public.blob.vercel-storage.com/incidencias/f.pdf",
			"https://elsewhere.example.com/old.pdf",
		},
	}

	_, err := svc.Update(context.Background(), page.ID, update, models.RoleTechnician)
	require.NoError(t, err)
	require.Len(t, store.updates, 1)
	patch := store.updates[0]
	_, hasTech := patch[records.PropResponsible]
	_, hasApproval := patch[records.PropBudgetApproved]
	assert.False(t, hasTech)
	assert.False(t, hasApproval)
	assert.Contains(t, patch, records.PropManagerNotes)
	assert.Equal(t, []string{"https://x.public.blob.vercel-storage.com/incidencias/f.pdf"}, patch.FileURLs(records.PropInvoices))

	_, err = svc.Update(context.Background(), page.ID, update, models.RoleManager)
	require.NoError(t, err)
	patch = store.updates[1]
	assert.Contains(t, patch, records.PropResponsible)
	assert.Contains(t, patch, records.PropBudgetApproved)
}

func TestGetMissingIncidentIsNil(t *testing.T) {
	svc := newIncidentService(newCountingStore(), &fakeClock{t: time.Now()})
	inc, err := svc.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, inc)

	_, err = svc.Update(context.Background(), "missing", models.IncidentUpdate{}, models.RoleManager)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestCompleteQuarterlyTask(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC)}
	store := newCountingStore()
	page := store.Put("mant-1", docstore.Page{Properties: docstore.Properties{
		"Tarea":                   docstore.Title("Revisión calderas"),
		records.PropStatus:        docstore.Status("Programado"),
		records.PropFrequency:     docstore.Select("Trimestral"),
		records.PropTaskScheduled: docstore.Date("2024-01-01"),
	}})
	svc := newMaintenanceService(store, clk)

	task, err := svc.Complete(context.Background(), page.ID, "", nil)
	require.NoError(t, err)

	assert.Equal(t, models.TaskCompleted, task.Status)
	assert.Equal(t, "2024-03-15", task.LastInspection.String())
	assert.Equal(t, "2024-06-15", task.ScheduledDate.String())
	require.Len(t, store.updates, 1, "completion must be a single patch")
}

func TestCompleteTwiceAdvancesTwice(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	store := newCountingStore()
	page := store.Put("mant-1", docstore.Page{Properties: docstore.Properties{
		records.PropFrequency: docstore.Select("Mensual"),
	}})
	svc := newMaintenanceService(store, clk)
	ctx := context.Background()

	first, err := svc.Complete(ctx, page.ID, "primera", nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-10", first.ScheduledDate.String())
	assert.Equal(t, "primera", first.ExecutionNotes)

	clk.t = time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	second, err := svc.Complete(ctx, page.ID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", second.ScheduledDate.String())
	assert.Equal(t, "2024-02-10", second.LastInspection.String())
	assert.Equal(t, "primera", second.ExecutionNotes)
}

func TestCompleteWithoutFrequencyFallsBackToQuarterly(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 5, 31, 9, 0, 0, 0, time.UTC)}
	store := newCountingStore()
	page := store.Put("mant-1", docstore.Page{Properties: docstore.Properties{}})
	svc := newMaintenanceService(store, clk)

	task, err := svc.Complete(context.Background(), page.ID, "", []string{"https://x/foto.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "2024-08-31", task.ScheduledDate.String())
	assert.Equal(t, []string{"https://x/foto.jpg"}, task.Photos)
}

func TestCompleteMissingTask(t *testing.T) {
	svc := newMaintenanceService(newCountingStore(), &fakeClock{t: time.Now()})
	_, err := svc.Complete(context.Background(), "missing", "", nil)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestCompleteInvalidatesMaintenanceList(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	store := newCountingStore()
	page := store.Put("mant-1", docstore.Page{Properties: docstore.Properties{}})
	svc := newMaintenanceService(store, clk)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.queryCount())

	_, err = svc.Complete(ctx, page.ID, "", nil)
	require.NoError(t, err)
	tasks, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.queryCount())
	assert.Equal(t, models.TaskCompleted, tasks[0].Status)
}

func TestMaintenanceWithoutCollection(t *testing.T) {
	store := newCountingStore()
	svc := NewMaintenanceService(store, "", time.Minute)

	tasks, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)
	assert.Equal(t, 0, store.queryCount())
}

func TestAgendaAndStats(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}
	store := newCountingStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.Put("mant-1", docstore.Page{ID: "late", CreatedTime: base, Properties: docstore.Properties{
		records.PropStatus: docstore.Status("Programado"), records.PropTaskScheduled: docstore.Date("2024-05-01"),
	}})
	store.Put("mant-1", docstore.Page{ID: "soon", CreatedTime: base.Add(time.Hour), Properties: docstore.Properties{
		records.PropStatus: docstore.Status("Programado"), records.PropTaskScheduled: docstore.Date("2024-05-13"),
	}})
	store.Put("mant-1", docstore.Page{ID: "done", CreatedTime: base.Add(2 * time.Hour), Properties: docstore.Properties{
		records.PropStatus: docstore.Status("Completado"), records.PropTaskScheduled: docstore.Date("2024-08-13"),
	}})
	svc := newMaintenanceService(store, clk)
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, schedule.Stats{Overdue: 1, DueThisWeek: 1, Open: 2}, stats)

	agenda, err := svc.Agenda(ctx, schedule.Filter{OverdueOnly: true})
	require.NoError(t, err)
	require.Len(t, agenda, 1)
	assert.Equal(t, "late", agenda[0].ID)
}

func TestIncidentForTask(t *testing.T) {
	in, err := IncidentForTask(models.MaintenanceTask{ID: "t1", Building: "AO"}, "3B", "grifo", "")
	require.NoError(t, err)
	assert.Equal(t, "Andres Obispo", in.Building)
	assert.Equal(t, models.CategoryTourist, in.Category)
	assert.Equal(t, models.UrgencyMedium, in.Urgency)
	assert.NoError(t, in.Validate())

	_, err = IncidentForTask(models.MaintenanceTask{ID: "t2", Building: "nonexistent-xyz"}, "1", "x", models.UrgencyLow)
	assert.ErrorIs(t, err, ErrUnresolvedBuilding)
}

func incidentIDs(incidents []models.Incident) []string {
	out := make([]string, 0, len(incidents))
	for _, i := range incidents {
		out = append(out, i.ID)
	}
	return out
}

func TestListedIncidentsDoNotAliasCache(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 4, 3, 10, 0, 0, 0, time.UTC)}
	store := newCountingStore()
	store.Put("tur-1", docstore.Page{ID: "a", Properties: docstore.Properties{
		records.PropPhotos:     docstore.ExternalFiles("foto", []string{"https://x.public.blob.vercel-storage.com/a.jpg"}),
		records.PropRepairCost: docstore.Number(75),
	}})
	svc := newIncidentService(store, clk)
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	first[0].Photos[0] = "mutated"
	*first[0].RepairCost = 0

	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, store.queryCount())
	assert.Equal(t, []string{"https://x.public.blob.vercel-storage.com/a.jpg"}, second[0].Photos)
	require.NotNil(t, second[0].RepairCost)
	assert.Equal(t, 75.0, *second[0].RepairCost)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propmaint/backend/internal/buildings"
	"github.com/propmaint/backend/internal/cache"
	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/logger"
	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/records"
	"github.com/propmaint/backend/internal/schedule"
)

const maintenanceCacheKey = "mantenimiento"

// ErrUnresolvedBuilding means a task's building has no roster entry, so no
// per-apartment operation applies.
var ErrUnresolvedBuilding = errors.New("building does not resolve to a known roster")

type MaintenanceService struct {
	store        docstore.Store
	collectionID string
	cache        *cache.Cache[models.MaintenanceTask]

	Now func() time.Time
}

// NewMaintenanceService creates a new maintenance service. An empty
// collectionID disables the module: lists are empty.
func NewMaintenanceService(store docstore.Store, collectionID string, ttl time.Duration) *MaintenanceService {
	return &MaintenanceService{
		store:        store,
		collectionID: collectionID,
		cache:        cache.New[models.MaintenanceTask](ttl),
		Now:          time.Now,
	}
}

func (s *MaintenanceService) Cache() *cache.Cache[models.MaintenanceTask] { return s.cache }

// Today is the current calendar day of the service clock.
func (s *MaintenanceService) Today() models.Date {
	if s.Now != nil {
		return models.DateOf(s.Now())
	}
	return models.DateOf(time.Now())
}

// List returns every task in creation order.
func (s *MaintenanceService) List(ctx context.Context) ([]models.MaintenanceTask, error) {
	if s.collectionID == "" {
		return []models.MaintenanceTask{}, nil
	}
	return s.cache.GetAll(ctx, maintenanceCacheKey, func(ctx context.Context) ([]models.MaintenanceTask, error) {
		pages, err := s.store.Query(ctx, s.collectionID, docstore.Sort{
			Timestamp: docstore.TimestampCreated,
			Direction: docstore.Ascending,
		})
		if err != nil {
			logger.WithError(err, "maintenance_service").Error("Failed to list maintenance tasks")
			return nil, err
		}
		tasks := make([]models.MaintenanceTask, 0, len(pages))
		for i := range pages {
			tasks = append(tasks, records.TaskFromPage(&pages[i]))
		}
		return tasks, nil
	})
}

// Get returns nil without error when the id does not resolve.
func (s *MaintenanceService) Get(ctx context.Context, id string) (*models.MaintenanceTask, error) {
	page, err := s.store.Retrieve(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	task := records.TaskFromPage(page)
	return &task, nil
}

func (s *MaintenanceService) Update(ctx context.Context, id string, u models.MaintenanceUpdate) (*models.MaintenanceTask, error) {
	defer s.cache.Invalidate(maintenanceCacheKey)
	return s.patch(ctx, id, records.TaskPatch(u), "Maintenance task updated")
}

// Complete closes the current cycle of a task and re-arms the next one:
// status Completed, last inspection today and the scheduled date advanced
// from today by the task's frequency, all in one patch.
func (s *MaintenanceService) Complete(ctx context.Context, id, notes string, photos []string) (*models.MaintenanceTask, error) {
	page, err := s.store.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}
	current := records.TaskFromPage(page)
	today := s.Today()
	next := schedule.NextDueDate(today, current.Frequency)

	defer s.cache.Invalidate(maintenanceCacheKey)
	task, err := s.patch(ctx, id, records.CompletionPatch(today, next, notes, photos), "Maintenance task completed")
	if err != nil {
		return nil, err
	}
	logger.WithTask(id).WithFields(map[string]interface{}{
		"frequency": string(current.Frequency),
		"next_due":  next.String(),
	}).Debug("Schedule advanced")
	return task, nil
}

// Agenda lists tasks matching f, overdue first.
func (s *MaintenanceService) Agenda(ctx context.Context, f schedule.Filter) ([]models.MaintenanceTask, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.Agenda(tasks, f, s.Today()), nil
}

func (s *MaintenanceService) Stats(ctx context.Context) (schedule.Stats, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return schedule.Stats{}, err
	}
	return schedule.Summarize(tasks, s.Today()), nil
}

func (s *MaintenanceService) patch(ctx context.Context, id string, props docstore.Properties, msg string) (*models.MaintenanceTask, error) {
	page, err := s.store.Update(ctx, id, props)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			logger.WithError(err, "maintenance_service").Error("Failed to update maintenance task")
		}
		return nil, err
	}
	task := records.TaskFromPage(page)
	logger.WithTask(id).WithField("status", string(task.Status)).Info(msg)
	return &task, nil
}

// IncidentForTask builds an incident report for one apartment of the
// building a maintenance task covers. The building must resolve so the
// report lands in the right category under its canonical name.
func IncidentForTask(task models.MaintenanceTask, apartment, description string, urgency models.Urgency) (models.IncidentInput, error) {
	entry, ok := buildings.Resolve(task.Building)
	if !ok {
		return models.IncidentInput{}, fmt.Errorf("task %s building %q: %w", task.ID, task.Building, ErrUnresolvedBuilding)
	}
	if urgency == "" {
		urgency = models.UrgencyMedium
	}
	return models.IncidentInput{
		Building:    entry.Name,
		Apartment:   apartment,
		Description: description,
		Urgency:     urgency,
		Category:    entry.Category,
	}, nil
}

// Package reconcile keeps per-apartment checklist edits visible while they
// travel to the store, and lets server snapshots take over once they agree.
package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/propmaint/backend/internal/buildings"
	"github.com/propmaint/backend/internal/logger"
	"github.com/propmaint/backend/internal/models"
)

// ErrPersistInFlight rejects a toggle while the previous one on the same
// task is still being saved.
var ErrPersistInFlight = errors.New("a checklist change for this task is still being saved")

// State is the reconciliation state of one task.
type State int

const (
	// Authoritative: the view shows the last server snapshot.
	Authoritative State = iota
	// PendingLocal: the view shows a local edit the server has not echoed.
	PendingLocal
)

func (s State) String() string {
	if s == PendingLocal {
		return "pending-local"
	}
	return "authoritative"
}

// Persister saves a task update. MaintenanceService and the HTTP client
// both satisfy it.
type Persister interface {
	Update(ctx context.Context, id string, u models.MaintenanceUpdate) (*models.MaintenanceTask, error)
}

// PersistFunc adapts a function to Persister.
type PersistFunc func(ctx context.Context, id string, u models.MaintenanceUpdate) (*models.MaintenanceTask, error)

func (f PersistFunc) Update(ctx context.Context, id string, u models.MaintenanceUpdate) (*models.MaintenanceTask, error) {
	return f(ctx, id, u)
}

type taskState struct {
	server   string
	status   models.TaskStatus
	override *string
	saving   bool
}

// Tracker runs the two-state machine for every task it has seen.
type Tracker struct {
	mu        sync.Mutex
	persister Persister
	tasks     map[string]*taskState
}

func NewTracker(p Persister) *Tracker {
	return &Tracker{persister: p, tasks: make(map[string]*taskState)}
}

func (t *Tracker) get(task models.MaintenanceTask) *taskState {
	st, ok := t.tasks[task.ID]
	if !ok {
		st = &taskState{server: task.CompletedApartments, status: task.Status}
		t.tasks[task.ID] = st
	}
	return st
}

// Observe feeds a server snapshot. An override whose value the snapshot now
// carries exactly is dropped; any other override survives.
func (t *Tracker) Observe(snapshot []models.MaintenanceTask) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, task := range snapshot {
		st := t.get(task)
		st.server = task.CompletedApartments
		st.status = task.Status
		if st.override != nil && *st.override == task.CompletedApartments {
			st.override = nil
		}
	}
}

// State returns the state of a task and the completed string the view
// should show.
func (t *Tracker) State(taskID string) (State, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.tasks[taskID]
	if !ok {
		return Authoritative, ""
	}
	if st.override != nil {
		return PendingLocal, *st.override
	}
	return Authoritative, st.server
}

// Completed returns the displayed completed apartments of a task.
func (t *Tracker) Completed(taskID string) []string {
	_, v := t.State(taskID)
	return buildings.ParseCompleted(v)
}

// Saving reports whether a persist is in flight for the task.
func (t *Tracker) Saving(taskID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.tasks[taskID]
	return ok && st.saving
}

// Toggle flips one apartment against the displayed set, shows the result at
// once and persists it. On failure the override is dropped and the view
// falls back to the last server snapshot. It returns the value written.
func (t *Tracker) Toggle(ctx context.Context, task models.MaintenanceTask, apartment string) (string, error) {
	t.mu.Lock()
	st := t.get(task)
	if st.saving {
		t.mu.Unlock()
		return "", ErrPersistInFlight
	}
	current := st.server
	if st.override != nil {
		current = *st.override
	}
	next := buildings.JoinCompleted(buildings.Toggle(buildings.ParseCompleted(current), apartment))
	st.override = &next
	st.saving = true
	status := st.status
	t.mu.Unlock()

	_, err := t.persister.Update(ctx, task.ID, ChecklistUpdate(next, status))

	t.mu.Lock()
	st.saving = false
	if err != nil {
		st.override = nil
	}
	t.mu.Unlock()

	if err != nil {
		logger.WithTask(task.ID).WithField("apartment", apartment).Warnf("checklist change rolled back: %v", err)
		return "", err
	}
	return next, nil
}

// ChecklistUpdate is the patch for a checklist change. Starting work on a
// task that was waiting or scheduled also moves it to In progress.
func ChecklistUpdate(completed string, status models.TaskStatus) models.MaintenanceUpdate {
	u := models.MaintenanceUpdate{CompletedApartments: &completed}
	switch status {
	case models.TaskAwaitingScheduling, models.TaskScheduled:
		inProgress := models.TaskInProgress
		u.Status = &inProgress
	case models.TaskInProgress, models.TaskCompleted:
	}
	return u
}

package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmaint/backend/internal/models"
)

type recordingPersister struct {
	mu      sync.Mutex
	updates []models.MaintenanceUpdate
	err     error
	blockID string
	block   chan struct{}
	entered chan struct{}
}

func (r *recordingPersister) Update(ctx context.Context, id string, u models.MaintenanceUpdate) (*models.MaintenanceTask, error) {
	if r.block != nil && id == r.blockID {
		r.entered <- struct{}{}
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
	if r.err != nil {
		return nil, r.err
	}
	return &models.MaintenanceTask{ID: id}, nil
}

func task(completed string, status models.TaskStatus) models.MaintenanceTask {
	return models.MaintenanceTask{ID: "t1", Building: "AO", CompletedApartments: completed, Status: status}
}

func TestToggleThenSnapshots(t *testing.T) {
	p := &recordingPersister{}
	tr := NewTracker(p)
	ctx := context.Background()

	tr.Observe([]models.MaintenanceTask{task("2A", models.TaskInProgress)})
	state, shown := tr.State("t1")
	assert.Equal(t, Authoritative, state)
	assert.Equal(t, "2A", shown)

	written, err := tr.Toggle(ctx, task("2A", models.TaskInProgress), "2B")
	require.NoError(t, err)
	assert.Equal(t, "2A, 2B", written)

	state, shown = tr.State("t1")
	assert.Equal(t, PendingLocal, state)
	assert.Equal(t, "2A, 2B", shown)

	// a lagging snapshot keeps the optimistic value
	tr.Observe([]models.MaintenanceTask{task("2A", models.TaskInProgress)})
	state, shown = tr.State("t1")
	assert.Equal(t, PendingLocal, state)
	assert.Equal(t, "2A, 2B", shown)
	assert.Equal(t, []string{"2A", "2B"}, tr.Completed("t1"))

	// the echo hands control back to the server
	tr.Observe([]models.MaintenanceTask{task("2A, 2B", models.TaskInProgress)})
	state, shown = tr.State("t1")
	assert.Equal(t, Authoritative, state)
	assert.Equal(t, "2A, 2B", shown)
}

func TestToggleRemovesApartment(t *testing.T) {
	tr := NewTracker(&recordingPersister{})
	written, err := tr.Toggle(context.Background(), task("2A, 2B, 3A", models.TaskInProgress), "2B")
	require.NoError(t, err)
	assert.Equal(t, "2A, 3A", written)
}

func TestToggleBuildsOnPendingValue(t *testing.T) {
	tr := NewTracker(&recordingPersister{})
	ctx := context.Background()
	tr.Observe([]models.MaintenanceTask{task("", models.TaskInProgress)})

	_, err := tr.Toggle(ctx, task("", models.TaskInProgress), "2A")
	require.NoError(t, err)
	written, err := tr.Toggle(ctx, task("", models.TaskInProgress), "3B")
	require.NoError(t, err)
	assert.Equal(t, "2A, 3B", written)
}

func TestFailedPersistRollsBack(t *testing.T) {
	p := &recordingPersister{err: errors.New("store down")}
	tr := NewTracker(p)
	tr.Observe([]models.MaintenanceTask{task("2A", models.TaskScheduled)})

	_, err := tr.Toggle(context.Background(), task("2A", models.TaskScheduled), "3A")
	require.Error(t, err)

	state, shown := tr.State("t1")
	assert.Equal(t, Authoritative, state)
	assert.Equal(t, "2A", shown)
	assert.False(t, tr.Saving("t1"))
}

func TestToggleIsSingleFlightPerTask(t *testing.T) {
	p := &recordingPersister{blockID: "t1", block: make(chan struct{}), entered: make(chan struct{}, 1)}
	tr := NewTracker(p)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := tr.Toggle(ctx, task("", models.TaskInProgress), "2A")
		done <- err
	}()
	<-p.entered

	assert.True(t, tr.Saving("t1"))
	_, err := tr.Toggle(ctx, task("", models.TaskInProgress), "2B")
	assert.ErrorIs(t, err, ErrPersistInFlight)

	other := models.MaintenanceTask{ID: "t2"}
	_, err = tr.Toggle(ctx, other, "1")
	assert.NoError(t, err, "other tasks are not blocked")

	close(p.block)
	require.NoError(t, <-done)
	_, shown := tr.State("t1")
	assert.Equal(t, "2A", shown)
}

func TestChecklistUpdateStartsWork(t *testing.T) {
	tests := []struct {
		status models.TaskStatus
		flips  bool
	}{
		{models.TaskAwaitingScheduling, true},
		{models.TaskScheduled, true},
		{models.TaskInProgress, false},
		{models.TaskCompleted, false},
	}
	for _, tt := range tests {
		u := ChecklistUpdate("2A", tt.status)
		require.NotNil(t, u.CompletedApartments)
		assert.Equal(t, "2A", *u.CompletedApartments)
		if tt.flips {
			require.NotNil(t, u.Status, tt.status)
			assert.Equal(t, models.TaskInProgress, *u.Status)
		} else {
			assert.Nil(t, u.Status, tt.status)
		}
	}
}

func TestPersistFuncAdapter(t *testing.T) {
	var got string
	tr := NewTracker(PersistFunc(func(ctx context.Context, id string, u models.MaintenanceUpdate) (*models.MaintenanceTask, error) {
		got = *u.CompletedApartments
		return nil, nil
	}))
	_, err := tr.Toggle(context.Background(), task("", models.TaskAwaitingScheduling), "BA")
	require.NoError(t, err)
	assert.Equal(t, "BA", got)
}

package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/logger"
	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/records"
)

// PageInserter stores pages under fixed ids, skipping ids already present.
// Both self-hosted stores implement it.
type PageInserter interface {
	Insert(ctx context.Context, collectionID, id string, created time.Time, props docstore.Properties) (*docstore.Page, error)
}

// MaintenanceSeed is the layout of data/initial-maintenance.json.
type MaintenanceSeed struct {
	Tasks []models.MaintenanceTask `json:"tareas"`
}

// SeedPaths are tried in order when no explicit path is given.
var SeedPaths = []string{"data/initial-maintenance.json", "../../data/initial-maintenance.json"}

// LoadMaintenanceSeed reads the seed file at path, or the first of
// SeedPaths that exists when path is empty.
func LoadMaintenanceSeed(path string) ([]models.MaintenanceTask, error) {
	candidates := SeedPaths
	if path != "" {
		candidates = []string{path}
	}
	var lastErr error
	for _, p := range candidates {
		raw, err := os.ReadFile(p)
		if err != nil {
			lastErr = err
			continue
		}
		var seed MaintenanceSeed
		if err := json.Unmarshal(raw, &seed); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		return seed.Tasks, nil
	}
	return nil, fmt.Errorf("failed to read maintenance seed: %w", lastErr)
}

// SeedID derives a stable page id for a seeded task so reseeding is a
// no-op.
func SeedID(collectionID string, t models.MaintenanceTask) string {
	key := collectionID + "/" + t.Building + "/" + t.Task
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// SeedMaintenance inserts tasks into the maintenance collection in file
// order, one second apart so creation order is preserved.
func SeedMaintenance(ctx context.Context, store PageInserter, collectionID string, tasks []models.MaintenanceTask, now time.Time) (int, error) {
	if collectionID == "" {
		return 0, fmt.Errorf("no maintenance collection configured")
	}
	base := now.Add(-time.Duration(len(tasks)) * time.Second)
	for i, t := range tasks {
		created := base.Add(time.Duration(i) * time.Second)
		if _, err := store.Insert(ctx, collectionID, SeedID(collectionID, t), created, records.TaskCreateProperties(t)); err != nil {
			return i, fmt.Errorf("seed task %q: %w", t.Task, err)
		}
	}
	logger.Info("Maintenance tasks seeded", map[string]interface{}{
		"collection": collectionID,
		"count":      len(tasks),
	})
	return len(tasks), nil
}

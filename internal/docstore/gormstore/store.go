// Package gormstore keeps pages in a postgres table so the service can run
// without a Notion workspace.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/models"
)

type Store struct {
	db *gorm.DB
}

var _ docstore.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Query(ctx context.Context, collectionID string, sorts ...docstore.Sort) ([]docstore.Page, error) {
	var rows []models.StoredPage
	err := s.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, &docstore.UpstreamError{Op: "query", Err: err}
	}

	pages := make([]docstore.Page, 0, len(rows))
	for i := range rows {
		page, err := toPage(&rows[i])
		if err != nil {
			return nil, &docstore.UpstreamError{Op: "query", Err: err}
		}
		pages = append(pages, *page)
	}
	docstore.SortPages(pages, sorts)
	return pages, nil
}

func (s *Store) Retrieve(ctx context.Context, id string) (*docstore.Page, error) {
	var row models.StoredPage
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, &docstore.UpstreamError{Op: "retrieve", Err: err}
	}
	return toPage(&row)
}

func (s *Store) Create(ctx context.Context, collectionID string, props docstore.Properties) (*docstore.Page, error) {
	return s.Insert(ctx, collectionID, "", time.Time{}, props)
}

// Insert stores a page with an optional fixed id and creation time. The seed
// command uses it to load tasks idempotently: when the id is taken the stored
// page is left alone and returned as it is.
func (s *Store) Insert(ctx context.Context, collectionID, id string, created time.Time, props docstore.Properties) (*docstore.Page, error) {
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encode properties: %w", err)
	}
	if id == "" {
		id = uuid.NewString()
	}
	row := models.StoredPage{
		ID:           id,
		CollectionID: collectionID,
		Properties:   datatypes.JSON(raw),
		CreatedAt:    created,
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return nil, &docstore.UpstreamError{Op: "create", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		var stored models.StoredPage
		if err := s.db.WithContext(ctx).First(&stored, "id = ?", id).Error; err != nil {
			return nil, &docstore.UpstreamError{Op: "create", Err: err}
		}
		return toPage(&stored)
	}
	return toPage(&row)
}

// Update merges props into the stored bag inside one transaction holding a
// row lock, so concurrent patches to the same page serialize.
func (s *Store) Update(ctx context.Context, id string, props docstore.Properties) (*docstore.Page, error) {
	var updated *docstore.Page
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.StoredPage
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, "id = ?", id).Error
		if err != nil {
			return err
		}
		current, err := toPage(&row)
		if err != nil {
			return err
		}
		merged := current.Properties.Merge(props)
		raw, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		if err := tx.Model(&row).Update("properties", datatypes.JSON(raw)).Error; err != nil {
			return err
		}
		current.Properties = merged
		updated = current
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, &docstore.UpstreamError{Op: "update", Err: err}
	}
	return updated, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func toPage(row *models.StoredPage) (*docstore.Page, error) {
	props := docstore.Properties{}
	if len(row.Properties) > 0 {
		if err := json.Unmarshal(row.Properties, &props); err != nil {
			return nil, fmt.Errorf("decode properties of page %s: %w", row.ID, err)
		}
	}
	return &docstore.Page{
		ID:          row.ID,
		Parent:      docstore.Parent{Type: "database_id", DatabaseID: row.CollectionID},
		CreatedTime: row.CreatedAt,
		Properties:  props,
	}, nil
}

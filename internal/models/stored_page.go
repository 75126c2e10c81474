package models

import (
	"time"

	"gorm.io/datatypes"
)

// StoredPage is one document of the self-hosted page store. Properties holds
// the JSON encoding of a docstore.Properties bag.
type StoredPage struct {
	ID           string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CollectionID string         `json:"collectionId" gorm:"index;not null"`
	Properties   datatypes.JSON `json:"properties" gorm:"type:jsonb;not null"`
	CreatedAt    time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (StoredPage) TableName() string {
	return "pages"
}

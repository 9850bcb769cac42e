package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Group is a named ordered collection of page ids. Duplicates are permitted
// and membership is not checked against live pages.
type Group struct {
	ID        uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID                      `gorm:"type:uuid;index;not null" json:"userId"`
	GroupName string                         `gorm:"size:255" json:"group_name"`
	Pages     datatypes.JSONSlice[uuid.UUID] `json:"pages"`
	CreatedAt time.Time                      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TemplateLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Template struct {
	ID           uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID                         `gorm:"type:uuid;index;not null" json:"userId"`
	URL          string                            `gorm:"type:text" json:"url"`
	FontFamily   string                            `gorm:"size:100" json:"font_family"`
	CornerStyles string                            `gorm:"size:50" json:"corner_styles"`
	Header       bool                              `json:"header"`
	Pagination   bool                              `json:"pagination"`
	Title        string                            `gorm:"size:255" json:"title"`
	CustomLogo   string                            `gorm:"type:text" json:"custom_logo"`
	Links        datatypes.JSONSlice[TemplateLink] `json:"links"`
	CreatedAt    time.Time                         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

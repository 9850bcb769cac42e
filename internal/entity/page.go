package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Theme struct {
	Type           string `json:"type"`
	HeaderColor    string `json:"header_color"`
	SubheaderColor string `json:"subheader_color"`
	BgColor        string `json:"bg_color"`
	LinksColor     string `json:"links_color"`
	ToggleMode     bool   `json:"toggle_mode"`
	DefaultMode    string `json:"default_mode"`
}

type NavLink struct {
	LinkTitle string `json:"link_title"`
	LinkURL   string `json:"link_url"`
}

type NavigationSection struct {
	SectionTitle string    `json:"section_title"`
	Links        []NavLink `json:"links"`
}

type FooterConfig struct {
	CopyrightText  string              `json:"copyright_text"`
	CopyrightColor string              `json:"copyright_color"`
	LinksColor     string              `json:"links_color"`
	BgColor        string              `json:"bg_color"`
	Navigation     []NavigationSection `json:"navigation"`
}

// ContentBlock is an opaque page building block; content is whatever shape
// the editor produced.
type ContentBlock struct {
	Type    string `json:"type"`
	Content any    `json:"content"`
}

type Page struct {
	ID                  uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID                         `gorm:"type:uuid;index;not null" json:"userId"`
	TemplateID          uuid.UUID                         `gorm:"type:uuid;index" json:"templateId"`
	Title               string                            `gorm:"size:255" json:"title"`
	Description         string                            `gorm:"type:text" json:"description"`
	Icon                string                            `gorm:"type:text" json:"icon"`
	URL                 string                            `gorm:"type:text" json:"url"`
	CustomLogo          string                            `gorm:"type:text" json:"custom_logo"`
	FooterLogo          string                            `gorm:"type:text" json:"footer_logo"`
	FontFamily          string                            `gorm:"size:100" json:"font_family"`
	CornerStyles        string                            `gorm:"size:50" json:"corner_styles"`
	FooterToggle        bool                              `json:"footer_toggle"`
	Theme               datatypes.JSONType[Theme]         `json:"theme"`
	FooterConfig        datatypes.JSONType[FooterConfig]  `json:"footer_config"`
	PaginationBgColor   string                            `gorm:"size:50" json:"pagination_bg_color"`
	PaginationTextColor string                            `gorm:"size:50" json:"pagination_text_color"`
	Contents            datatypes.JSONSlice[ContentBlock] `json:"contents"`
	CreatedAt           time.Time                         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time                         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

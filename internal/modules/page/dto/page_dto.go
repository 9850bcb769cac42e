package dto

import (
	"anoa.com/pagebuilder/internal/entity"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Payload types mirror the nested JSON shapes submitted inside multipart
// fields. Pointer fields distinguish a missing key from a zero value, so
// "toggle_mode": false still counts as present.

type ThemePayload struct {
	Type           *string `json:"type" validate:"required"`
	HeaderColor    *string `json:"header_color" validate:"required"`
	SubheaderColor *string `json:"subheader_color" validate:"required"`
	BgColor        *string `json:"bg_color" validate:"required"`
	LinksColor     *string `json:"links_color" validate:"required"`
	ToggleMode     *bool   `json:"toggle_mode" validate:"required"`
	DefaultMode    *string `json:"default_mode" validate:"required"`
}

func (p ThemePayload) ToEntity() entity.Theme {
	return entity.Theme{
		Type:           *p.Type,
		HeaderColor:    *p.HeaderColor,
		SubheaderColor: *p.SubheaderColor,
		BgColor:        *p.BgColor,
		LinksColor:     *p.LinksColor,
		ToggleMode:     *p.ToggleMode,
		DefaultMode:    *p.DefaultMode,
	}
}

type NavLinkPayload struct {
	LinkTitle *string `json:"link_title" validate:"required"`
	LinkURL   *string `json:"link_url" validate:"required"`
}

type NavigationSectionPayload struct {
	SectionTitle *string          `json:"section_title" validate:"required"`
	Links        []NavLinkPayload `json:"links" validate:"dive"`
}

type FooterConfigPayload struct {
	CopyrightText  *string                    `json:"copyright_text" validate:"required"`
	CopyrightColor *string                    `json:"copyright_color" validate:"required"`
	LinksColor     *string                    `json:"links_color" validate:"required"`
	BgColor        *string                    `json:"bg_color" validate:"required"`
	Navigation     []NavigationSectionPayload `json:"navigation" validate:"dive"`
}

func (p FooterConfigPayload) ToEntity() entity.FooterConfig {
	navigation := make([]entity.NavigationSection, 0, len(p.Navigation))
	for _, section := range p.Navigation {
		links := make([]entity.NavLink, 0, len(section.Links))
		for _, link := range section.Links {
			links = append(links, entity.NavLink{LinkTitle: *link.LinkTitle, LinkURL: *link.LinkURL})
		}
		navigation = append(navigation, entity.NavigationSection{
			SectionTitle: *section.SectionTitle,
			Links:        links,
		})
	}
	return entity.FooterConfig{
		CopyrightText:  *p.CopyrightText,
		CopyrightColor: *p.CopyrightColor,
		LinksColor:     *p.LinksColor,
		BgColor:        *p.BgColor,
		Navigation:     navigation,
	}
}

type ContentBlockPayload struct {
	Type    *string `json:"type" validate:"required"`
	Content any     `json:"content"`
}

func ContentsToEntity(payloads []ContentBlockPayload) []entity.ContentBlock {
	blocks := make([]entity.ContentBlock, 0, len(payloads))
	for _, p := range payloads {
		blocks = append(blocks, entity.ContentBlock{Type: *p.Type, Content: p.Content})
	}
	return blocks
}

// PageMin is the list projection for page pickers.
type PageMin struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// PageContents carries just the rendered blocks of one page.
type PageContents struct {
	ID       uuid.UUID                                `json:"id"`
	Title    string                                   `json:"title"`
	Contents datatypes.JSONSlice[entity.ContentBlock] `json:"contents"`
}

package dto

import (
	"anoa.com/pagebuilder/internal/entity"
	"github.com/google/uuid"
)

// LinkPayload is a template navigation link as submitted by the client.
// Pointer fields distinguish a missing key from an empty value.
type LinkPayload struct {
	Title *string `json:"title" validate:"required"`
	URL   *string `json:"url" validate:"required"`
}

func LinksToEntity(payloads []LinkPayload) []entity.TemplateLink {
	links := make([]entity.TemplateLink, 0, len(payloads))
	for _, p := range payloads {
		links = append(links, entity.TemplateLink{Title: *p.Title, URL: *p.URL})
	}
	return links
}

// TemplateMin is the list projection for template pickers.
type TemplateMin struct {
	ID    uuid.UUID `json:"id"`
	URL   string    `json:"url"`
	Title string    `json:"title"`
}

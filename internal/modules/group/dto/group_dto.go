package dto

import (
	"time"

	"anoa.com/pagebuilder/internal/entity"
	"github.com/google/uuid"
)

// GroupFull is the read shape with member pages resolved to full records.
// Ids that no longer resolve to a live page are dropped from the embed.
type GroupFull struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"userId"`
	GroupName string        `json:"group_name"`
	Pages     []entity.Page `json:"pages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

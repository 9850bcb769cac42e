package repository

import (
	"context"
	"encoding/json"

	"anoa.com/pagebuilder/internal/entity"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository interface {
	Create(ctx context.Context, group *entity.Group) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Group, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	AppendPages(ctx context.Context, id uuid.UUID, pageIDs []uuid.UUID) error
	RemovePages(ctx context.Context, id uuid.UUID, pageIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *entity.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	var group entity.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Group, error) {
	var groups []entity.Group
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&entity.Group{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// AppendPages concatenates ids onto the stored jsonb array. Duplicates are
// permitted and membership is never checked against live pages.
func (r *groupRepository) AppendPages(ctx context.Context, id uuid.UUID, pageIDs []uuid.UUID) error {
	raw, err := json.Marshal(pageIDs)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&entity.Group{}).
		Where("id = ?", id).
		Update("pages", gorm.Expr("COALESCE(pages, '[]'::jsonb) || ?::jsonb", string(raw))).Error
}

// RemovePages drops every occurrence of the given ids under a row lock, so
// concurrent removals cannot resurrect members from a stale read. Removing
// an absent id is a no-op.
func (r *groupRepository) RemovePages(ctx context.Context, id uuid.UUID, pageIDs []uuid.UUID) error {
	remove := make(map[string]struct{}, len(pageIDs))
	for _, pageID := range pageIDs {
		remove[pageID.String()] = struct{}{}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group entity.Group
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&group, "id = ?", id).Error
		if err != nil {
			return err
		}

		kept := make([]uuid.UUID, 0, len(group.Pages))
		for _, pageID := range group.Pages {
			if _, drop := remove[pageID.String()]; !drop {
				kept = append(kept, pageID)
			}
		}

		return tx.Model(&group).Update("pages", datatypes.NewJSONSlice(kept)).Error
	})
}

func (r *groupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Group{}, "id = ?", id).Error
}

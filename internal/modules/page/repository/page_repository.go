package repository

import (
	"context"
	"encoding/json"

	"anoa.com/pagebuilder/internal/entity"
	"anoa.com/pagebuilder/internal/modules/page/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PageRepository interface {
	Create(ctx context.Context, page *entity.Page) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Page, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Page, error)
	FindAll(ctx context.Context) ([]entity.Page, error)
	FindAllMin(ctx context.Context) ([]dto.PageMin, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Page, error)
	FindByTemplateID(ctx context.Context, templateID uuid.UUID) ([]entity.Page, error)
	FindByTemplateIDMin(ctx context.Context, templateID uuid.UUID) ([]dto.PageMin, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	AppendContents(ctx context.Context, id uuid.UUID, blocks []entity.ContentBlock) error
	ReplaceContents(ctx context.Context, id uuid.UUID, blocks []entity.ContentBlock) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type pageRepository struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(ctx context.Context, page *entity.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *pageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Page, error) {
	var page entity.Page
	if err := r.db.WithContext(ctx).First(&page, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Page, error) {
	if len(ids) == 0 {
		return []entity.Page{}, nil
	}
	var pages []entity.Page
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) FindAll(ctx context.Context) ([]entity.Page, error) {
	var pages []entity.Page
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) FindAllMin(ctx context.Context) ([]dto.PageMin, error) {
	var pages []dto.PageMin
	err := r.db.WithContext(ctx).
		Model(&entity.Page{}).
		Select("id", "url", "title", "description").
		Order("created_at DESC").
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Page, error) {
	var pages []entity.Page
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) FindByTemplateID(ctx context.Context, templateID uuid.UUID) ([]entity.Page, error) {
	var pages []entity.Page
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("created_at DESC").
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) FindByTemplateIDMin(ctx context.Context, templateID uuid.UUID) ([]dto.PageMin, error) {
	var pages []dto.PageMin
	err := r.db.WithContext(ctx).
		Model(&entity.Page{}).
		Select("id", "url", "title", "description").
		Where("template_id = ?", templateID).
		Order("created_at DESC").
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&entity.Page{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// AppendContents concatenates blocks onto the stored jsonb array in one
// statement. COALESCE covers rows created before contents had a value.
func (r *pageRepository) AppendContents(ctx context.Context, id uuid.UUID, blocks []entity.ContentBlock) error {
	raw, err := json.Marshal(blocks)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&entity.Page{}).
		Where("id = ?", id).
		Update("contents", gorm.Expr("COALESCE(contents, '[]'::jsonb) || ?::jsonb", string(raw))).Error
}

func (r *pageRepository) ReplaceContents(ctx context.Context, id uuid.UUID, blocks []entity.ContentBlock) error {
	raw, err := json.Marshal(blocks)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&entity.Page{}).
		Where("id = ?", id).
		Update("contents", gorm.Expr("?::jsonb", string(raw))).Error
}

func (r *pageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Page{}, "id = ?", id).Error
}

func (r *pageRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Page{}, "user_id = ?", userID).Error
}

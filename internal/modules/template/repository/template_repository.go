package repository

import (
	"context"

	"anoa.com/pagebuilder/internal/entity"
	"anoa.com/pagebuilder/internal/modules/template/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	Create(ctx context.Context, template *entity.Template) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Template, error)
	FindAll(ctx context.Context) ([]entity.Template, error)
	FindAllMin(ctx context.Context) ([]dto.TemplateMin, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Template, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, template *entity.Template) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *templateRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Template, error) {
	var template entity.Template
	if err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) FindAll(ctx context.Context) ([]entity.Template, error) {
	var templates []entity.Template
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) FindAllMin(ctx context.Context) ([]dto.TemplateMin, error) {
	var templates []dto.TemplateMin
	err := r.db.WithContext(ctx).
		Model(&entity.Template{}).
		Select("id", "url", "title").
		Order("created_at DESC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Template, error) {
	var templates []entity.Template
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&entity.Template{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *templateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Template{}, "id = ?", id).Error
}

func (r *templateRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Template{}, "user_id = ?", userID).Error
}

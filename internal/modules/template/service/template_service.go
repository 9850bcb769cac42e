package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"anoa.com/pagebuilder/internal/entity"
	"anoa.com/pagebuilder/internal/modules/template/dto"
	"anoa.com/pagebuilder/internal/modules/template/repository"
	"anoa.com/pagebuilder/pkg/apperror"
	"anoa.com/pagebuilder/pkg/fields"
	"anoa.com/pagebuilder/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var templateUpdateAllow = []string{"url", "font_family", "corner_styles", "title", "header", "links", "pagination"}

type TemplateService interface {
	Create(ctx context.Context, userID uuid.UUID, form map[string][]string, logo *multipart.FileHeader, host string) (*entity.Template, error)
	GetAll(ctx context.Context) ([]entity.Template, error)
	GetAllMin(ctx context.Context) ([]dto.TemplateMin, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]entity.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Template, error)
	Update(ctx context.Context, userID, id uuid.UUID, form map[string][]string, logo *multipart.FileHeader, host string) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type templateService struct {
	templateRepo repository.TemplateRepository
	store        *storage.Store
	validate     *validator.Validate
}

func NewTemplateService(templateRepo repository.TemplateRepository, store *storage.Store) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		store:        store,
		validate:     validator.New(),
	}
}

func (s *templateService) Create(ctx context.Context, userID uuid.UUID, form map[string][]string, logo *multipart.FileHeader, host string) (*entity.Template, error) {
	staging := storage.NewStaging(s.store)
	defer staging.Cleanup()

	if logo == nil {
		return nil, apperror.New(http.StatusUnprocessableEntity, "custom_logo must be image or it is missing", nil)
	}
	if !storage.AllowedImageType(logo) {
		return nil, apperror.New(http.StatusUnsupportedMediaType, "Only .png, .jpg and .jpeg image format allowed", nil)
	}
	stagedLogo, err := staging.Stage(logo)
	if err != nil {
		return nil, fmt.Errorf("failed to store logo: %w", err)
	}

	values, verr := fields.Validate(form, []fields.Rule{
		{Field: "url", Message: "url is required and must be valid", Parse: fields.URL()},
		{Field: "font_family", Message: "font_family is required", Parse: fields.String()},
		{Field: "corner_styles", Message: "corner_styles is required", Parse: fields.String()},
		{Field: "header", Message: "header is required and must be a boolean", Parse: fields.Bool()},
		{Field: "pagination", Message: "pagination is required and must be a boolean", Parse: fields.Bool()},
		{Field: "title", Message: "title is required", Parse: fields.String()},
		{Field: "links", Message: "links is required and must be a non-empty array of {title, url}", Parse: fields.JSONSliceOf[dto.LinkPayload](s.validate)},
	})
	if verr != nil {
		return nil, apperror.New(http.StatusUnprocessableEntity, verr.Message, nil)
	}

	links, _ := values["links"].([]dto.LinkPayload)
	template := &entity.Template{
		UserID:       userID,
		URL:          values.String("url"),
		FontFamily:   values.String("font_family"),
		CornerStyles: values.String("corner_styles"),
		Header:       values.Bool("header"),
		Pagination:   values.Bool("pagination"),
		Title:        values.String("title"),
		CustomLogo:   host + "/uploads/" + stagedLogo,
		Links:        datatypes.NewJSONSlice(dto.LinksToEntity(links)),
	}

	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	staging.Commit(stagedLogo)
	return template, nil
}

func (s *templateService) GetAll(ctx context.Context) ([]entity.Template, error) {
	return s.templateRepo.FindAll(ctx)
}

func (s *templateService) GetAllMin(ctx context.Context) ([]dto.TemplateMin, error) {
	return s.templateRepo.FindAllMin(ctx)
}

func (s *templateService) GetByUser(ctx context.Context, userID uuid.UUID) ([]entity.Template, error) {
	return s.templateRepo.FindByUserID(ctx, userID)
}

func (s *templateService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Template, error) {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Template with provided id not found", nil)
		}
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	return template, nil
}

func (s *templateService) Update(ctx context.Context, userID, id uuid.UUID, form map[string][]string, logo *multipart.FileHeader, host string) error {
	staging := storage.NewStaging(s.store)
	defer staging.Cleanup()

	stagedLogo := ""
	if logo != nil {
		if !storage.AllowedImageType(logo) {
			return apperror.New(http.StatusUnsupportedMediaType, "Only .png, .jpg and .jpeg image format allowed", nil)
		}
		name, err := staging.Stage(logo)
		if err != nil {
			return fmt.Errorf("failed to store logo: %w", err)
		}
		stagedLogo = name
	}

	if !fields.Allowlisted(form, templateUpdateAllow) {
		return apperror.New(http.StatusBadRequest, "Unknown field detected, please only enter valid field(s)", nil)
	}

	values, verr := fields.Validate(form, []fields.Rule{
		{Field: "url", Optional: true, Message: "url must be valid", Parse: fields.URL()},
		{Field: "font_family", Optional: true, Message: "font_family must not be empty", Parse: fields.String()},
		{Field: "corner_styles", Optional: true, Message: "corner_styles must not be empty", Parse: fields.String()},
		{Field: "title", Optional: true, Message: "title must not be empty", Parse: fields.String()},
		{Field: "header", Optional: true, Message: "header must be a boolean", Parse: fields.Bool()},
		{Field: "pagination", Optional: true, Message: "pagination must be a boolean", Parse: fields.Bool()},
		{Field: "links", Optional: true, Message: "links must be a non-empty array of {title, url}", Parse: fields.JSONSliceOf[dto.LinkPayload](s.validate)},
	})
	if verr != nil {
		return apperror.New(http.StatusUnprocessableEntity, verr.Message, nil)
	}

	template, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if template.UserID != userID {
		return apperror.New(http.StatusUnauthorized, "Cannot update template, only user who created template can update it", nil)
	}

	updates := map[string]any{}
	for _, field := range []string{"url", "font_family", "corner_styles", "title", "header", "pagination"} {
		if values.Has(field) {
			updates[field] = values[field]
		}
	}
	if values.Has("links") {
		links, _ := values["links"].([]dto.LinkPayload)
		updates["links"] = datatypes.NewJSONSlice(dto.LinksToEntity(links))
	}
	if stagedLogo != "" {
		updates["custom_logo"] = host + "/uploads/" + stagedLogo
	}

	if len(updates) == 0 {
		return nil
	}

	if err := s.templateRepo.UpdateFields(ctx, id, updates); err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	// The old logo goes only after the record points at the new one.
	if stagedLogo != "" {
		staging.Commit(stagedLogo)
		if template.CustomLogo != "" {
			if err := s.store.Discard(storage.StoredName(template.CustomLogo)); err != nil {
				log.Printf("failed to discard old logo %q: %v", template.CustomLogo, err)
			}
		}
	}

	return nil
}

func (s *templateService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	template, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if template.UserID != userID {
		return apperror.New(http.StatusUnauthorized, "Cannot delete template, only user who created template can delete it", nil)
	}

	if template.CustomLogo != "" {
		if err := s.store.Discard(storage.StoredName(template.CustomLogo)); err != nil {
			return fmt.Errorf("failed to discard logo: %w", err)
		}
	}

	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

func (s *templateService) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	templates, err := s.templateRepo.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	if err := s.templateRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete templates: %w", err)
	}

	// Records are gone; leftover files are logged, not fatal.
	for _, template := range templates {
		if template.CustomLogo == "" {
			continue
		}
		if err := s.store.Discard(storage.StoredName(template.CustomLogo)); err != nil {
			log.Printf("failed to discard logo %q: %v", template.CustomLogo, err)
		}
	}
	return nil
}

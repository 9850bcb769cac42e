package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"anoa.com/pagebuilder/internal/entity"
	"anoa.com/pagebuilder/internal/modules/page/dto"
	"anoa.com/pagebuilder/internal/modules/page/repository"
	"anoa.com/pagebuilder/pkg/apperror"
	"anoa.com/pagebuilder/pkg/fields"
	"anoa.com/pagebuilder/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var pageUpdateAllow = []string{
	"url", "icon", "theme", "title", "templateId", "description",
	"font_family", "corner_styles", "footer_toggle", "footer_config",
	"pagination_bg_color", "pagination_text_color",
}

type PageService interface {
	Create(ctx context.Context, userID uuid.UUID, form map[string][]string, customLogo, footerLogo *multipart.FileHeader, host string) (*entity.Page, error)
	GetAll(ctx context.Context) ([]entity.Page, error)
	GetAllMin(ctx context.Context) ([]dto.PageMin, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]entity.Page, error)
	GetByTemplate(ctx context.Context, templateID uuid.UUID) ([]entity.Page, error)
	GetByTemplateMin(ctx context.Context, templateID uuid.UUID) ([]dto.PageMin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Page, error)
	GetContents(ctx context.Context, id uuid.UUID) (*dto.PageContents, error)
	AddContents(ctx context.Context, userID, id uuid.UUID, form map[string][]string) error
	ReplaceContents(ctx context.Context, userID, id uuid.UUID, form map[string][]string) error
	Update(ctx context.Context, userID, id uuid.UUID, form map[string][]string, customLogo, footerLogo *multipart.FileHeader, host string) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type pageService struct {
	pageRepo repository.PageRepository
	store    *storage.Store
	validate *validator.Validate
}

func NewPageService(pageRepo repository.PageRepository, store *storage.Store) PageService {
	return &pageService{
		pageRepo: pageRepo,
		store:    store,
		validate: validator.New(),
	}
}

func (s *pageService) Create(ctx context.Context, userID uuid.UUID, form map[string][]string, customLogo, footerLogo *multipart.FileHeader, host string) (*entity.Page, error) {
	staging := storage.NewStaging(s.store)
	defer staging.Cleanup()

	stagedCustom, err := s.stageImage(staging, customLogo)
	if err != nil {
		return nil, err
	}
	stagedFooter, err := s.stageImage(staging, footerLogo)
	if err != nil {
		return nil, err
	}

	// Pairing comes before field validation: a lone staged logo is
	// discarded by the deferred cleanup.
	if stagedCustom == "" || stagedFooter == "" {
		return nil, apperror.New(http.StatusBadRequest, "custom_logo and footer_logo, both are required", nil)
	}

	values, verr := fields.Validate(form, []fields.Rule{
		{Field: "title", Message: "title is required", Parse: fields.String()},
		{Field: "description", Message: "description is required", Parse: fields.String()},
		{Field: "icon", Message: "icon is required", Parse: fields.String()},
		{Field: "templateId", Message: "templateId is required and must be a valid id", Parse: fields.ID()},
		{Field: "url", Message: "url is required and must be valid", Parse: fields.URL()},
		{Field: "font_family", Message: "font_family is required", Parse: fields.String()},
		{Field: "corner_styles", Message: "corner_styles is required", Parse: fields.String()},
		{Field: "footer_toggle", Message: "footer_toggle is required and must be a boolean", Parse: fields.Bool()},
		{Field: "pagination_bg_color", Message: "pagination_bg_color is required", Parse: fields.String()},
		{Field: "pagination_text_color", Message: "pagination_text_color is required", Parse: fields.String()},
		{Field: "theme", Message: "theme is required and must be a valid theme object", Parse: fields.JSONOf[dto.ThemePayload](s.validate)},
		{Field: "footer_config", Message: "footer_config is required and must be a valid footer config object", Parse: fields.JSONOf[dto.FooterConfigPayload](s.validate)},
	})
	if verr != nil {
		return nil, apperror.New(http.StatusUnprocessableEntity, verr.Message, nil)
	}

	theme, _ := values["theme"].(dto.ThemePayload)
	footerConfig, _ := values["footer_config"].(dto.FooterConfigPayload)
	templateID, _ := values["templateId"].(uuid.UUID)

	page := &entity.Page{
		UserID:              userID,
		TemplateID:          templateID,
		Title:               values.String("title"),
		Description:         values.String("description"),
		Icon:                values.String("icon"),
		URL:                 values.String("url"),
		CustomLogo:          host + "/uploads/" + stagedCustom,
		FooterLogo:          host + "/uploads/" + stagedFooter,
		FontFamily:          values.String("font_family"),
		CornerStyles:        values.String("corner_styles"),
		FooterToggle:        values.Bool("footer_toggle"),
		Theme:               datatypes.NewJSONType(theme.ToEntity()),
		FooterConfig:        datatypes.NewJSONType(footerConfig.ToEntity()),
		PaginationBgColor:   values.String("pagination_bg_color"),
		PaginationTextColor: values.String("pagination_text_color"),
		Contents:            datatypes.NewJSONSlice([]entity.ContentBlock{}),
	}

	if err := s.pageRepo.Create(ctx, page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	staging.Commit(stagedCustom)
	staging.Commit(stagedFooter)
	return page, nil
}

func (s *pageService) GetAll(ctx context.Context) ([]entity.Page, error) {
	return s.pageRepo.FindAll(ctx)
}

func (s *pageService) GetAllMin(ctx context.Context) ([]dto.PageMin, error) {
	return s.pageRepo.FindAllMin(ctx)
}

func (s *pageService) GetByUser(ctx context.Context, userID uuid.UUID) ([]entity.Page, error) {
	return s.pageRepo.FindByUserID(ctx, userID)
}

func (s *pageService) GetByTemplate(ctx context.Context, templateID uuid.UUID) ([]entity.Page, error) {
	return s.pageRepo.FindByTemplateID(ctx, templateID)
}

func (s *pageService) GetByTemplateMin(ctx context.Context, templateID uuid.UUID) ([]dto.PageMin, error) {
	return s.pageRepo.FindByTemplateIDMin(ctx, templateID)
}

func (s *pageService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Page, error) {
	page, err := s.pageRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Page with provided id not found", nil)
		}
		return nil, fmt.Errorf("failed to find page: %w", err)
	}
	return page, nil
}

func (s *pageService) GetContents(ctx context.Context, id uuid.UUID) (*dto.PageContents, error) {
	page, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PageContents{
		ID:       page.ID,
		Title:    page.Title,
		Contents: page.Contents,
	}, nil
}

func (s *pageService) AddContents(ctx context.Context, userID, id uuid.UUID, form map[string][]string) error {
	blocks, err := s.contentBlocks(form)
	if err != nil {
		return err
	}

	page, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if page.UserID != userID {
		return apperror.New(http.StatusUnauthorized, "Cannot update page, only user who created page can update it", nil)
	}

	if err := s.pageRepo.AppendContents(ctx, id, blocks); err != nil {
		return fmt.Errorf("failed to append contents: %w", err)
	}
	return nil
}

func (s *pageService) ReplaceContents(ctx context.Context, userID, id uuid.UUID, form map[string][]string) error {
	blocks, err := s.contentBlocks(form)
	if err != nil {
		return err
	}

	page, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if page.UserID != userID {
		return apperror.New(http.StatusUnauthorized, "Cannot update page, only user who created page can update it", nil)
	}

	if err := s.pageRepo.ReplaceContents(ctx, id, blocks); err != nil {
		return fmt.Errorf("failed to replace contents: %w", err)
	}
	return nil
}

func (s *pageService) Update(ctx context.Context, userID, id uuid.UUID, form map[string][]string, customLogo, footerLogo *multipart.FileHeader, host string) error {
	staging := storage.NewStaging(s.store)
	defer staging.Cleanup()

	stagedCustom, err := s.stageImage(staging, customLogo)
	if err != nil {
		return err
	}
	stagedFooter, err := s.stageImage(staging, footerLogo)
	if err != nil {
		return err
	}

	if !fields.Allowlisted(form, pageUpdateAllow) {
		return apperror.New(http.StatusBadRequest, "Unknown field detected, please only enter valid field(s)", nil)
	}

	values, verr := fields.Validate(form, []fields.Rule{
		{Field: "url", Optional: true, Message: "url must be valid", Parse: fields.URL()},
		{Field: "icon", Optional: true, Message: "icon must not be empty", Parse: fields.String()},
		{Field: "title", Optional: true, Message: "title must not be empty", Parse: fields.String()},
		{Field: "templateId", Optional: true, Message: "templateId must be a valid id", Parse: fields.ID()},
		{Field: "description", Optional: true, Message: "description must not be empty", Parse: fields.String()},
		{Field: "font_family", Optional: true, Message: "font_family must not be empty", Parse: fields.String()},
		{Field: "corner_styles", Optional: true, Message: "corner_styles must not be empty", Parse: fields.String()},
		{Field: "footer_toggle", Optional: true, Message: "footer_toggle must be a boolean", Parse: fields.Bool()},
		{Field: "pagination_bg_color", Optional: true, Message: "pagination_bg_color must not be empty", Parse: fields.String()},
		{Field: "pagination_text_color", Optional: true, Message: "pagination_text_color must not be empty", Parse: fields.String()},
		{Field: "theme", Optional: true, Message: "theme must be a valid theme object", Parse: fields.JSONOf[dto.ThemePayload](s.validate)},
		{Field: "footer_config", Optional: true, Message: "footer_config must be a valid footer config object", Parse: fields.JSONOf[dto.FooterConfigPayload](s.validate)},
	})
	if verr != nil {
		return apperror.New(http.StatusUnprocessableEntity, verr.Message, nil)
	}

	page, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if page.UserID != userID {
		return apperror.New(http.StatusUnauthorized, "Cannot update page, only user who created page can update it", nil)
	}

	updates := map[string]any{}
	for _, field := range []string{
		"url", "icon", "title", "description", "font_family", "corner_styles",
		"footer_toggle", "pagination_bg_color", "pagination_text_color",
	} {
		if values.Has(field) {
			updates[field] = values[field]
		}
	}
	if values.Has("templateId") {
		updates["template_id"] = values["templateId"]
	}
	if values.Has("theme") {
		theme, _ := values["theme"].(dto.ThemePayload)
		updates["theme"] = datatypes.NewJSONType(theme.ToEntity())
	}
	if values.Has("footer_config") {
		footerConfig, _ := values["footer_config"].(dto.FooterConfigPayload)
		updates["footer_config"] = datatypes.NewJSONType(footerConfig.ToEntity())
	}
	if stagedCustom != "" {
		updates["custom_logo"] = host + "/uploads/" + stagedCustom
	}
	if stagedFooter != "" {
		updates["footer_logo"] = host + "/uploads/" + stagedFooter
	}

	if len(updates) == 0 {
		return nil
	}

	if err := s.pageRepo.UpdateFields(ctx, id, updates); err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}

	// Old logos go only after the record points at the new ones.
	if stagedCustom != "" {
		staging.Commit(stagedCustom)
		s.discardOld(page.CustomLogo)
	}
	if stagedFooter != "" {
		staging.Commit(stagedFooter)
		s.discardOld(page.FooterLogo)
	}

	return nil
}

func (s *pageService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	page, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if page.UserID != userID {
		return apperror.New(http.StatusUnauthorized, "Cannot delete page, only user who created page can delete it", nil)
	}

	for _, logo := range []string{page.CustomLogo, page.FooterLogo} {
		if logo == "" {
			continue
		}
		if err := s.store.Discard(storage.StoredName(logo)); err != nil {
			return fmt.Errorf("failed to discard logo: %w", err)
		}
	}

	if err := s.pageRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	return nil
}

func (s *pageService) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	pages, err := s.pageRepo.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	if err := s.pageRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete pages: %w", err)
	}

	// Records are gone; leftover files are logged, not fatal.
	for _, page := range pages {
		s.discardOld(page.CustomLogo)
		s.discardOld(page.FooterLogo)
	}
	return nil
}

func (s *pageService) contentBlocks(form map[string][]string) ([]entity.ContentBlock, error) {
	values, verr := fields.Validate(form, []fields.Rule{
		{Field: "contents", Message: "contents is required and must be a non-empty array of blocks", Parse: fields.JSONSliceOf[dto.ContentBlockPayload](s.validate)},
	})
	if verr != nil {
		return nil, apperror.New(http.StatusUnprocessableEntity, verr.Message, nil)
	}
	payloads, _ := values["contents"].([]dto.ContentBlockPayload)
	return dto.ContentsToEntity(payloads), nil
}

func (s *pageService) stageImage(staging *storage.Staging, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", nil
	}
	if !storage.AllowedImageType(file) {
		return "", apperror.New(http.StatusUnsupportedMediaType, "Only .png, .jpg and .jpeg image format allowed", nil)
	}
	name, err := staging.Stage(file)
	if err != nil {
		return "", fmt.Errorf("failed to store logo: %w", err)
	}
	return name, nil
}

func (s *pageService) discardOld(fileURL string) {
	if fileURL == "" {
		return
	}
	if err := s.store.Discard(storage.StoredName(fileURL)); err != nil {
		log.Printf("failed to discard file %q: %v", fileURL, err)
	}
}

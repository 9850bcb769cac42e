package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"anoa.com/pagebuilder/internal/entity"
	"anoa.com/pagebuilder/internal/modules/group/dto"
	"anoa.com/pagebuilder/internal/modules/group/repository"
	pageRepo "anoa.com/pagebuilder/internal/modules/page/repository"
	"anoa.com/pagebuilder/pkg/apperror"
	"anoa.com/pagebuilder/pkg/fields"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var groupRenameAllow = []string{"group_name"}

type GroupService interface {
	CreateEmpty(ctx context.Context, userID uuid.UUID, form map[string][]string) (*entity.Group, error)
	Create(ctx context.Context, userID uuid.UUID, form map[string][]string) (*entity.Group, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]entity.Group, error)
	GetFull(ctx context.Context, id uuid.UUID) (*dto.GroupFull, error)
	GetMin(ctx context.Context, id uuid.UUID) (*entity.Group, error)
	Rename(ctx context.Context, userID, id uuid.UUID, form map[string][]string) error
	AddPages(ctx context.Context, userID, id uuid.UUID, form map[string][]string) error
	RemovePages(ctx context.Context, userID, id uuid.UUID, form map[string][]string) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type groupService struct {
	groupRepo repository.GroupRepository
	pageRepo  pageRepo.PageRepository
}

func NewGroupService(groupRepo repository.GroupRepository, pageRepo pageRepo.PageRepository) GroupService {
	return &groupService{
		groupRepo: groupRepo,
		pageRepo:  pageRepo,
	}
}

func (s *groupService) CreateEmpty(ctx context.Context, userID uuid.UUID, form map[string][]string) (*entity.Group, error) {
	values, verr := fields.Validate(form, []fields.Rule{
		{Field: "group_name", Message: "group_name is required and must be between 1 and 100 characters", Parse: fields.BoundedString(1, 100)},
	})
	if verr != nil {
		return nil, apperror.New(http.StatusUnprocessableEntity, verr.Message, nil)
	}

	group := &entity.Group{
		UserID:    userID,
		GroupName: values.String("group_name"),
		Pages:     datatypes.NewJSONSlice([]uuid.UUID{}),
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

func (s *groupService) Create(ctx context.Context, userID uuid.UUID, form map[string][]string) (*entity.Group, error) {
	values, verr := fields.Validate(form, []fields.Rule{
		{Field: "group_name", Message: "group_name is required and must be between 1 and 100 characters", Parse: fields.BoundedString(1, 100)},
		{Field: "pages", Message: "pages is required and must be a non-empty array of valid ids", Parse: fields.IDList()},
	})
	if verr != nil {
		return nil, apperror.New(http.StatusUnprocessableEntity, verr.Message, nil)
	}

	pages, _ := values["pages"].([]uuid.UUID)
	group := &entity.Group{
		UserID:    userID,
		GroupName: values.String("group_name"),
		Pages:     datatypes.NewJSONSlice(pages),
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

func (s *groupService) GetByUser(ctx context.Context, userID uuid.UUID) ([]entity.Group, error) {
	return s.groupRepo.FindByUserID(ctx, userID)
}

// GetFull resolves member ids to embedded page records, preserving the
// stored order (duplicates included) and dropping dangling ids.
func (s *groupService) GetFull(ctx context.Context, id uuid.UUID) (*dto.GroupFull, error) {
	group, err := s.GetMin(ctx, id)
	if err != nil {
		return nil, err
	}

	records, err := s.pageRepo.FindByIDs(ctx, group.Pages)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pages: %w", err)
	}

	byID := make(map[uuid.UUID]entity.Page, len(records))
	for _, page := range records {
		byID[page.ID] = page
	}

	pages := make([]entity.Page, 0, len(group.Pages))
	for _, pageID := range group.Pages {
		if page, ok := byID[pageID]; ok {
			pages = append(pages, page)
		}
	}

	return &dto.GroupFull{
		ID:        group.ID,
		UserID:    group.UserID,
		GroupName: group.GroupName,
		Pages:     pages,
		CreatedAt: group.CreatedAt,
		UpdatedAt: group.UpdatedAt,
	}, nil
}

func (s *groupService) GetMin(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Group with provided id not found", nil)
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return group, nil
}

func (s *groupService) Rename(ctx context.Context, userID, id uuid.UUID, form map[string][]string) error {
	if !fields.Allowlisted(form, groupRenameAllow) {
		return apperror.New(http.StatusBadRequest, "Unknown field detected, please only enter valid field(s)", nil)
	}

	values, verr := fields.Validate(form, []fields.Rule{
		{Field: "group_name", Message: "group_name is required and must be between 1 and 100 characters", Parse: fields.BoundedString(1, 100)},
	})
	if verr != nil {
		return apperror.New(http.StatusUnprocessableEntity, verr.Message, nil)
	}

	if err := s.authorize(ctx, userID, id, "update"); err != nil {
		return err
	}

	updates := map[string]any{"group_name": values.String("group_name")}
	if err := s.groupRepo.UpdateFields(ctx, id, updates); err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

func (s *groupService) AddPages(ctx context.Context, userID, id uuid.UUID, form map[string][]string) error {
	pages, err := s.pageIDs(form)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, userID, id, "update"); err != nil {
		return err
	}

	if err := s.groupRepo.AppendPages(ctx, id, pages); err != nil {
		return fmt.Errorf("failed to add pages: %w", err)
	}
	return nil
}

func (s *groupService) RemovePages(ctx context.Context, userID, id uuid.UUID, form map[string][]string) error {
	pages, err := s.pageIDs(form)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, userID, id, "update"); err != nil {
		return err
	}

	if err := s.groupRepo.RemovePages(ctx, id, pages); err != nil {
		return fmt.Errorf("failed to remove pages: %w", err)
	}
	return nil
}

func (s *groupService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.authorize(ctx, userID, id, "delete"); err != nil {
		return err
	}

	// Member pages are never cascaded.
	if err := s.groupRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (s *groupService) authorize(ctx context.Context, userID, id uuid.UUID, action string) error {
	group, err := s.GetMin(ctx, id)
	if err != nil {
		return err
	}
	if group.UserID != userID {
		message := fmt.Sprintf("Cannot %s group, only user who created group can %s it", action, action)
		return apperror.New(http.StatusUnauthorized, message, nil)
	}
	return nil
}

func (s *groupService) pageIDs(form map[string][]string) ([]uuid.UUID, error) {
	values, verr := fields.Validate(form, []fields.Rule{
		{Field: "pages", Message: "pages is required and must be a non-empty array of valid ids", Parse: fields.IDList()},
	})
	if verr != nil {
		return nil, apperror.New(http.StatusUnprocessableEntity, verr.Message, nil)
	}
	pages, _ := values["pages"].([]uuid.UUID)
	return pages, nil
}

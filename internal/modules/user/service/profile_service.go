package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"anoa.com/pagebuilder/internal/entity"
	"anoa.com/pagebuilder/internal/modules/user/repository"
	"anoa.com/pagebuilder/pkg/apperror"
	"anoa.com/pagebuilder/pkg/fields"
	"anoa.com/pagebuilder/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var profileUpdateAllow = []string{"full_name", "phone"}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, userID uuid.UUID, form map[string][]string, picture *multipart.FileHeader, host string) (*entity.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type profileService struct {
	userRepo repository.UserRepository
	store    *storage.Store
}

func NewProfileService(userRepo repository.UserRepository, store *storage.Store) ProfileService {
	return &profileService{
		userRepo: userRepo,
		store:    store,
	}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "User not found", nil)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, form map[string][]string, picture *multipart.FileHeader, host string) (*entity.User, error) {
	staging := storage.NewStaging(s.store)
	defer staging.Cleanup()

	stagedPicture := ""
	if picture != nil {
		if !storage.AllowedImageType(picture) {
			return nil, apperror.New(http.StatusUnsupportedMediaType, "Only .png, .jpg and .jpeg image format allowed", nil)
		}
		name, err := staging.Stage(picture)
		if err != nil {
			return nil, fmt.Errorf("failed to store picture: %w", err)
		}
		stagedPicture = name
	}

	if !fields.Allowlisted(form, profileUpdateAllow) {
		return nil, apperror.New(http.StatusBadRequest, "Unknown field detected, please only enter valid field(s)", nil)
	}

	values, verr := fields.Validate(form, []fields.Rule{
		{Field: "full_name", Optional: true, Message: "full_name must be between 2 and 100 characters", Parse: fields.BoundedString(2, 100)},
		{Field: "phone", Optional: true, Message: "phone must be between 5 and 30 characters", Parse: fields.BoundedString(5, 30)},
	})
	if verr != nil {
		return nil, apperror.New(http.StatusUnprocessableEntity, verr.Message, nil)
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if values.Has("full_name") {
		name := values.String("full_name")
		user.FullName = &name
	}
	if values.Has("phone") {
		phone := values.String("phone")
		user.Phone = &phone
	}

	oldPicture := user.Picture
	if stagedPicture != "" {
		url := host + "/uploads/" + stagedPicture
		user.Picture = &url
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if stagedPicture != "" {
		staging.Commit(stagedPicture)
		if oldPicture != nil {
			if err := s.store.Discard(storage.StoredName(*oldPicture)); err != nil {
				log.Printf("failed to discard old picture %q: %v", *oldPicture, err)
			}
		}
	}

	return user, nil
}

func (s *profileService) Delete(ctx context.Context, userID uuid.UUID) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if user.Picture != nil {
		if err := s.store.Discard(storage.StoredName(*user.Picture)); err != nil {
			return fmt.Errorf("failed to discard picture: %w", err)
		}
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

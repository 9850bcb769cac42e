package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"anoa.com/pagebuilder/internal/modules/user/dto"
	"anoa.com/pagebuilder/internal/modules/user/repository"
	"anoa.com/pagebuilder/pkg/apperror"
	"anoa.com/pagebuilder/pkg/token"

	"anoa.com/pagebuilder/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name,email,picture.type(large)"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	GoogleLoginURL(state string) string
	GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error)
	FacebookLoginURL(state string) string
	FacebookCallback(ctx context.Context, code string) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*token.Pair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo      repository.UserRepository
	tokens        *token.Issuer
	googleOAuth   *oauth2.Config
	facebookOAuth *oauth2.Config
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Issuer, googleOAuth, facebookOAuth *oauth2.Config) AuthService {
	return &authService{
		userRepo:      userRepo,
		tokens:        tokens,
		googleOAuth:   googleOAuth,
		facebookOAuth: facebookOAuth,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.New(http.StatusBadRequest, "Email already registered", nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hash)
	user := &entity.User{
		Email:        &input.Email,
		PasswordHash: &hashStr,
		FullName:     &input.FullName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.respondWithTokens(ctx, user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusUnauthorized, "Wrong credentials, please try again", nil)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.PasswordHash == nil {
		return nil, apperror.New(http.StatusUnauthorized, "Wrong credentials, please try again", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "Wrong credentials, please try again", nil)
	}

	return s.respondWithTokens(ctx, user)
}

func (s *authService) GoogleLoginURL(state string) string {
	return s.googleOAuth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (s *authService) GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error) {
	tok, err := s.googleOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "Google login failed, please try again", err)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := fetchUserInfo(ctx, s.googleOAuth, tok, googleUserInfoURL, &info); err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "Google login failed, please try again", err)
	}

	user, err := s.findOrCreateProviderUser(ctx, providerProfile{
		googleID: &info.ID,
		email:    info.Email,
		name:     info.Name,
		picture:  info.Picture,
	})
	if err != nil {
		return nil, err
	}

	return s.respondWithTokens(ctx, user)
}

func (s *authService) FacebookLoginURL(state string) string {
	return s.facebookOAuth.AuthCodeURL(state)
}

func (s *authService) FacebookCallback(ctx context.Context, code string) (*dto.AuthResponse, error) {
	tok, err := s.facebookOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "Facebook login failed, please try again", err)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := fetchUserInfo(ctx, s.facebookOAuth, tok, facebookUserInfoURL, &info); err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "Facebook login failed, please try again", err)
	}

	user, err := s.findOrCreateProviderUser(ctx, providerProfile{
		facebookID: &info.ID,
		email:      info.Email,
		name:       info.Name,
		picture:    info.Picture.Data.URL,
	})
	if err != nil {
		return nil, err
	}

	return s.respondWithTokens(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*token.Pair, error) {
	userID, jti, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			return nil, apperror.New(http.StatusUnauthorized, "Invalid refresh token", nil)
		}
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, userID.String()); err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "Invalid refresh token", nil)
	}

	// Rotate: the redeemed token is revoked and a fresh pair issued.
	if err := s.tokens.Revoke(ctx, userID, jti); err != nil {
		return nil, err
	}
	return s.tokens.Issue(ctx, userID)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	userID, jti, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			return apperror.New(http.StatusUnauthorized, "Invalid refresh token", nil)
		}
		return err
	}
	return s.tokens.Revoke(ctx, userID, jti)
}

type providerProfile struct {
	googleID   *string
	facebookID *string
	email      string
	name       string
	picture    string
}

// findOrCreateProviderUser resolves an OAuth profile to a local account:
// match on provider id first, then link by email, otherwise create.
func (s *authService) findOrCreateProviderUser(ctx context.Context, profile providerProfile) (*entity.User, error) {
	var user *entity.User
	var err error

	switch {
	case profile.googleID != nil:
		user, err = s.userRepo.FindByGoogleID(ctx, *profile.googleID)
	case profile.facebookID != nil:
		user, err = s.userRepo.FindByFacebookID(ctx, *profile.facebookID)
	default:
		return nil, apperror.New(http.StatusInternalServerError, "", errors.New("provider profile missing id"))
	}
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if profile.email != "" {
		user, err = s.userRepo.FindByEmail(ctx, profile.email)
		if err == nil {
			user.GoogleID = orKeep(user.GoogleID, profile.googleID)
			user.FacebookID = orKeep(user.FacebookID, profile.facebookID)
			if user.Picture == nil && profile.picture != "" {
				user.Picture = &profile.picture
			}
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to link provider: %w", err)
			}
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
	}

	user = &entity.User{
		FullName:   &profile.name,
		GoogleID:   profile.googleID,
		FacebookID: profile.facebookID,
	}
	if profile.email != "" {
		user.Email = &profile.email
	}
	if profile.picture != "" {
		user.Picture = &profile.picture
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) respondWithTokens(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	pair, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &dto.AuthResponse{
		Success:   true,
		User:      user,
		Token:     pair,
		ExpiresIn: pair.ExpiresIn,
	}, nil
}

func fetchUserInfo(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, url string, out any) error {
	resp, err := cfg.Client(ctx, tok).Get(url)
	if err != nil {
		return fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("user info endpoint returned %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func orKeep(current, candidate *string) *string {
	if current != nil {
		return current
	}
	return candidate
}

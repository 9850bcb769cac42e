package dto

import (
	"anoa.com/pagebuilder/internal/entity"
	"anoa.com/pagebuilder/pkg/token"
)

type RegisterInput struct {
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	Success   bool         `json:"success"`
	User      *entity.User `json:"user"`
	Token     *token.Pair  `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
}

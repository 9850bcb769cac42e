// Package token mints and verifies the signed access/refresh token pair.
// Access and refresh tokens are HS256 JWTs with separate secrets; issued
// refresh tokens are recorded in Redis so they can be revoked on logout.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Pair is the token set handed out on login and OAuth callbacks.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Issuer struct {
	secret        []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	redisClient   *redis.Client
}

// NewIssuer builds the issuer. redisClient may be nil, in which case refresh
// tokens are verified statelessly and revocation is a no-op.
func NewIssuer(secret, refreshSecret string, accessTTL, refreshTTL time.Duration, redisClient *redis.Client) *Issuer {
	return &Issuer{
		secret:        []byte(secret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		redisClient:   redisClient,
	}
}

// Issue mints an access/refresh pair for the user and records the refresh
// token id while it remains redeemable.
func (i *Issuer) Issue(ctx context.Context, userID uuid.UUID) (*Pair, error) {
	access, expiresAt, err := i.IssueAccess(userID)
	if err != nil {
		return nil, err
	}

	jti := uuid.NewString()
	refreshClaims := jwt.RegisteredClaims{
		ID:        jti,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.refreshTTL)),
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(i.refreshSecret)
	if err != nil {
		return nil, err
	}

	if i.redisClient != nil {
		if err := i.redisClient.Set(ctx, refreshKey(userID.String(), jti), 1, i.refreshTTL).Err(); err != nil {
			return nil, fmt.Errorf("failed to record refresh token: %w", err)
		}
	}

	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    expiresAt,
	}, nil
}

// IssueAccess mints a bare access token, returning its expiry as a unix
// timestamp.
func (i *Issuer) IssueAccess(userID uuid.UUID) (string, int64, error) {
	expiresAt := time.Now().Add(i.accessTTL)

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

// VerifyRefresh checks the refresh token's signature, expiry and revocation
// state, returning the subject user id and the token id.
func (i *Issuer) VerifyRefresh(ctx context.Context, raw string) (uuid.UUID, string, error) {
	claims, err := i.parse(raw, i.refreshSecret)
	if err != nil {
		return uuid.Nil, "", err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}

	if i.redisClient != nil {
		exists, err := i.redisClient.Exists(ctx, refreshKey(claims.Subject, claims.ID)).Result()
		if err != nil {
			return uuid.Nil, "", fmt.Errorf("failed to check refresh token: %w", err)
		}
		if exists == 0 {
			return uuid.Nil, "", ErrInvalidToken
		}
	}

	return userID, claims.ID, nil
}

// Revoke removes a refresh token from the issued set.
func (i *Issuer) Revoke(ctx context.Context, userID uuid.UUID, jti string) error {
	if i.redisClient == nil {
		return nil
	}
	return i.redisClient.Del(ctx, refreshKey(userID.String(), jti)).Err()
}

func (i *Issuer) parse(raw string, secret []byte) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func refreshKey(userID, jti string) string {
	return "refresh:" + userID + ":" + jti
}

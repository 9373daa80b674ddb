package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/foxxcyber/recipe-scaler/internal/models"
)

var ErrInvalidShareToken = errors.New("invalid or expired share token")

// ShareClaims identify a scaled recipe view: the recipe plus the request
// that scaled it. The result itself is recomputed when the link is opened.
type ShareClaims struct {
	RecipeID  string                `json:"rid"`
	Mode      models.ScalingMode    `json:"mode"`
	Parameter models.ScaleParameter `json:"param"`
	jwt.RegisteredClaims
}

// ShareService signs and verifies share tokens
type ShareService struct {
	key    []byte
	expiry time.Duration
	now    func() time.Time
}

// NewShareService creates a share service. The signing key is derived from secret.
func NewShareService(secret string, expiry time.Duration) *ShareService {
	if expiry <= 0 {
		expiry = 72 * time.Hour
	}
	return &ShareService{
		key:    DeriveSigningKey(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Issue returns a signed token for the given recipe and scale request
func (s *ShareService) Issue(recipeID string, mode models.ScalingMode, param models.ScaleParameter) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)
	claims := &ShareClaims{
		RecipeID:  recipeID,
		Mode:      mode,
		Parameter: param,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   recipeID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign share token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies a token and returns its claims
func (s *ShareService) Parse(tokenString string) (*ShareClaims, error) {
	claims := &ShareClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidShareToken
	}
	if claims.RecipeID == "" {
		return nil, ErrInvalidShareToken
	}
	return claims, nil
}

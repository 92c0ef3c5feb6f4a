package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodzone/api-svc/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Email string `json:"email"`
	UID   string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret   []byte
	ttl      time.Duration
	verifier IDTokenVerifier
	now      func() time.Time
}

// NewTokenService issues HS256 session tokens. When verifier is non-nil a
// token is only issued against a valid identity-provider ID token.
func NewTokenService(secret string, ttl time.Duration, verifier IDTokenVerifier) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, verifier: verifier, now: time.Now}
}

func (s *TokenService) Issue(ctx context.Context, req domain.TokenRequest) (string, error) {
	if strings.TrimSpace(req.Email) == "" {
		return "", domain.ErrMissingFields
	}

	if s.verifier != nil {
		if req.IDToken == "" {
			return "", domain.ErrInvalidToken
		}
		email, err := s.verifier.VerifyIDToken(ctx, req.IDToken)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
		}
		if !strings.EqualFold(email, req.Email) {
			return "", domain.ErrInvalidToken
		}
	}

	now := s.now()
	claims := Claims{
		Email: req.Email,
		UID:   req.UID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, errors.Join(domain.ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

var _ TokenServiceInterface = (*TokenService)(nil)

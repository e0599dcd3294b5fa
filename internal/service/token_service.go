package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"factcheck/internal/domain"
)

// TokenService emite y valida los ID tokens del proveedor de identidad local.
type TokenService struct {
	secret      []byte
	ttl         time.Duration
	issuer      string
	revocations RevocationStore
	now         func() time.Time
}

type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Claims struct {
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

func NewTokenService(secret, issuer string, ttl time.Duration, revocations RevocationStore) *TokenService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if issuer == "" {
		issuer = "factcheck"
	}
	if revocations == nil {
		revocations = NewMemoryRevocationStore()
	}
	return &TokenService{
		secret:      []byte(secret),
		ttl:         ttl,
		issuer:      issuer,
		revocations: revocations,
		now:         time.Now,
	}
}

// Issue firma un token para la credencial dada.
func (s *TokenService) Issue(cred domain.Credential) (IssuedToken, error) {
	if len(s.secret) == 0 {
		return IssuedToken{}, ErrTokenInvalid
	}
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Email:         cred.Email,
		Name:          cred.DisplayName,
		EmailVerified: cred.EmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   cred.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{
		Token:     signed,
		ExpiresIn: int64(s.ttl.Seconds()),
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyToken valida firma, emisor, expiracion y revocacion.
func (s *TokenService) VerifyToken(ctx context.Context, token string) (domain.VerifiedSubject, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.VerifiedSubject{}, err
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.VerifiedSubject{}, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return domain.VerifiedSubject{}, ErrTokenRevoked
	}

	subject := domain.VerifiedSubject{
		ID:            claims.Subject,
		Email:         claims.Email,
		DisplayName:   claims.Name,
		EmailVerified: claims.EmailVerified,
		TokenID:       claims.ID,
	}
	if claims.ExpiresAt != nil {
		subject.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return subject, nil
}

// Revoke invalida el token hasta su expiracion.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	return s.revocations.Revoke(ctx, claims.ID, ttl)
}

func (s *TokenService) parse(tokenString string) (Claims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenInvalid
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.ID) == "" {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

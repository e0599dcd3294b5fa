package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"factcheck/internal/domain"
	"factcheck/internal/repository"
)

// IdentityVerifier es el contrato minimo con el proveedor de identidad.
// Debe devolver ErrTokenExpired, ErrTokenRevoked o ErrTokenInvalid segun el motivo.
type IdentityVerifier interface {
	VerifyToken(ctx context.Context, token string) (domain.VerifiedSubject, error)
}

// Authenticator valida credenciales bearer y aprovisiona usuarios en su primer acceso.
type Authenticator struct {
	logger   *zap.Logger
	verifier IdentityVerifier
	users    repository.UserRepository
	now      func() time.Time
}

func NewAuthenticator(logger *zap.Logger, verifier IdentityVerifier, users repository.UserRepository) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		logger:   logger,
		verifier: verifier,
		users:    users,
		now:      time.Now,
	}
}

// BearerToken extrae el token de un header "Authorization: Bearer <token>".
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// Authenticate resuelve la identidad del header o falla con un error de credencial.
func (a *Authenticator) Authenticate(ctx context.Context, authorization string) (domain.IdentityContext, error) {
	token, ok := BearerToken(authorization)
	if !ok {
		return domain.IdentityContext{}, ErrCredentialMissing
	}

	subject, err := a.verify(ctx, token)
	if err != nil {
		return domain.IdentityContext{}, err
	}

	user, err := a.users.GetByID(ctx, subject.ID)
	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		user, err = a.provision(ctx, subject)
		if err != nil {
			return domain.IdentityContext{}, err
		}
	default:
		return domain.IdentityContext{}, fmt.Errorf("%w: get user: %w", ErrStoreUnavailable, err)
	}

	return identityFrom(subject, user), nil
}

// AuthenticateOptional nunca falla: sin credencial valida o sin usuario devuelve nil.
func (a *Authenticator) AuthenticateOptional(ctx context.Context, authorization string) *domain.IdentityContext {
	token, ok := BearerToken(authorization)
	if !ok {
		return nil
	}
	subject, err := a.verify(ctx, token)
	if err != nil {
		return nil
	}
	user, err := a.users.GetByID(ctx, subject.ID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			a.logger.Warn("optional auth user lookup failed", zap.Error(err))
		}
		return nil
	}
	identity := identityFrom(subject, user)
	return &identity
}

func (a *Authenticator) verify(ctx context.Context, token string) (domain.VerifiedSubject, error) {
	if a.verifier == nil {
		return domain.VerifiedSubject{}, ErrCredentialInvalid
	}
	subject, err := a.verifier.VerifyToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			return domain.VerifiedSubject{}, ErrCredentialExpired
		case errors.Is(err, ErrTokenRevoked):
			return domain.VerifiedSubject{}, ErrCredentialRevoked
		case errors.Is(err, ErrTokenInvalid):
			return domain.VerifiedSubject{}, ErrCredentialInvalid
		default:
			a.logger.Warn("identity provider verification failed", zap.Error(err))
			return domain.VerifiedSubject{}, ErrCredentialInvalid
		}
	}
	if strings.TrimSpace(subject.ID) == "" {
		return domain.VerifiedSubject{}, ErrCredentialInvalid
	}
	return subject, nil
}

func (a *Authenticator) provision(ctx context.Context, subject domain.VerifiedSubject) (domain.UserRecord, error) {
	now := a.now().UTC()
	firstName, lastName := splitDisplayName(subject.DisplayName)
	record := domain.UserRecord{
		ID:         subject.ID,
		Email:      normalizeEmail(subject.Email),
		FirstName:  firstName,
		LastName:   lastName,
		IsVerified: subject.EmailVerified,
		Stats: domain.UserStats{
			LinksChecked: 0,
			FeatureUsage: map[string]int{},
		},
		SettingsHistory: []domain.SettingsChange{},
		CreatedAt:       now,
		LastLoginAt:     now,
		UpdatedAt:       now,
	}
	user, err := a.users.CreateIfAbsent(ctx, record)
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("%w: provision user: %w", ErrStoreUnavailable, err)
	}
	a.logger.Info("user provisioned", zap.String("user_id", user.ID))
	return user, nil
}

func identityFrom(subject domain.VerifiedSubject, user domain.UserRecord) domain.IdentityContext {
	return domain.IdentityContext{
		UserID:        subject.ID,
		Email:         subject.Email,
		EmailVerified: subject.EmailVerified,
		User:          user,
		TokenID:       subject.TokenID,
		TokenExpires:  subject.ExpiresAt,
	}
}

func splitDisplayName(name string) (string, string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"factcheck/internal/domain"
	"factcheck/internal/repository"
)

const minPasswordLength = 8

// IdentityService es el proveedor de identidad local: registro, login y logout.
// No crea UserRecords; eso ocurre en el primer acceso autenticado.
type IdentityService struct {
	logger *zap.Logger
	creds  repository.CredentialRepository
	users  repository.UserRepository
	tokens *TokenService
	now    func() time.Time
}

func NewIdentityService(logger *zap.Logger, creds repository.CredentialRepository, users repository.UserRepository, tokens *TokenService) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{
		logger: logger,
		creds:  creds,
		users:  users,
		tokens: tokens,
		now:    time.Now,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type LoginResult struct {
	Token      IssuedToken
	Credential domain.Credential
}

func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (domain.Credential, error) {
	email := normalizeEmail(input.Email)
	if _, err := mail.ParseAddress(email); email == "" || err != nil {
		return domain.Credential{}, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return domain.Credential{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Credential{}, err
	}

	cred := domain.Credential{
		ID:            uuid.NewString(),
		Email:         email,
		PasswordHash:  string(hash),
		DisplayName:   strings.TrimSpace(strings.TrimSpace(input.FirstName) + " " + strings.TrimSpace(input.LastName)),
		EmailVerified: true,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.creds.Create(ctx, cred); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.Credential{}, ErrEmailTaken
		}
		return domain.Credential{}, fmt.Errorf("%w: create credential: %w", ErrStoreUnavailable, err)
	}
	return cred, nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("%w: get credential: %w", ErrStoreUnavailable, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(cred)
	if err != nil {
		return LoginResult{}, err
	}

	if s.users != nil {
		if err := s.users.TouchLogin(ctx, cred.ID, s.now().UTC()); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("update last login failed", zap.Error(err), zap.String("user_id", cred.ID))
		}
	}

	return LoginResult{Token: token, Credential: cred}, nil
}

// Logout revoca el token presentado.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

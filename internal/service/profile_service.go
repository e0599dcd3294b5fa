package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"factcheck/internal/domain"
	"factcheck/internal/repository"
)

// ProfileService lee y edita el perfil de un usuario, registrando cada cambio.
type ProfileService struct {
	users repository.UserRepository
	now   func() time.Time
}

func NewProfileService(users repository.UserRepository) *ProfileService {
	return &ProfileService{users: users, now: time.Now}
}

// ProfilePatch usa punteros: nil significa "no tocar".
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Avatar    *string
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (domain.UserRecord, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserRecord{}, ErrUserNotFound
		}
		return domain.UserRecord{}, fmt.Errorf("%w: get user: %w", ErrStoreUnavailable, err)
	}
	return user, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (domain.UserRecord, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.UserRecord{}, err
	}

	now := s.now().UTC()
	var (
		fields  domain.ProfileFields
		changes []domain.SettingsChange
	)
	// Solo viajan al store los campos que cambian; el resto no se reescribe.
	apply := func(name, current string, val *string) *string {
		if val == nil {
			return nil
		}
		next := strings.TrimSpace(*val)
		if next == current {
			return nil
		}
		changes = append(changes, domain.SettingsChange{
			Field:     name,
			OldValue:  current,
			NewValue:  next,
			ChangedAt: now,
		})
		return &next
	}
	fields.FirstName = apply("firstName", user.FirstName, patch.FirstName)
	fields.LastName = apply("lastName", user.LastName, patch.LastName)
	fields.Bio = apply("profile.bio", user.Profile.Bio, patch.Bio)
	fields.Avatar = apply("profile.avatar", user.Profile.Avatar, patch.Avatar)

	if len(changes) == 0 {
		return user, nil
	}

	if err := s.users.UpdateProfile(ctx, userID, fields, changes, now); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserRecord{}, ErrUserNotFound
		}
		return domain.UserRecord{}, fmt.Errorf("%w: update profile: %w", ErrStoreUnavailable, err)
	}

	return s.GetProfile(ctx, userID)
}

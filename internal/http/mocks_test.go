package http

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"factcheck/internal/domain"
	"factcheck/internal/repository"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.UserRecord
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]domain.UserRecord)}
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (domain.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.UserRecord{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *memUserRepo) CreateIfAbsent(_ context.Context, user domain.UserRecord) (domain.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[user.ID]; ok {
		return existing, nil
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserRepo) UpdateProfile(_ context.Context, id string, fields domain.ProfileFields, changes []domain.SettingsChange, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	setIfPresent(&u.FirstName, fields.FirstName)
	setIfPresent(&u.LastName, fields.LastName)
	setIfPresent(&u.Profile.Bio, fields.Bio)
	setIfPresent(&u.Profile.Avatar, fields.Avatar)
	u.SettingsHistory = append(u.SettingsHistory, changes...)
	u.UpdatedAt = at
	m.users[id] = u
	return nil
}

func (m *memUserRepo) IncrementChecks(_ context.Context, id, feature string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Stats.LinksChecked++
	if u.Stats.FeatureUsage == nil {
		u.Stats.FeatureUsage = map[string]int{}
	}
	u.Stats.FeatureUsage[feature]++
	u.UpdatedAt = at
	m.users[id] = u
	return nil
}

func (m *memUserRepo) TouchLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.LastLoginAt = at
	m.users[id] = u
	return nil
}

type memCheckRepo struct {
	mu     sync.Mutex
	checks []domain.CheckRecord
}

func (m *memCheckRepo) Create(_ context.Context, check domain.CheckRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks = append(m.checks, check)
	return nil
}

func (m *memCheckRepo) QueryChecks(_ context.Context, userID string, from time.Time, limit int) ([]domain.CheckRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CheckRecord
	for _, c := range m.checks {
		if c.UserID == userID && !c.CheckedAt.Before(from) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckedAt.After(out[j].CheckedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memCredentialRepo struct {
	mu    sync.Mutex
	creds map[string]domain.Credential
}

func newMemCredentialRepo() *memCredentialRepo {
	return &memCredentialRepo{creds: make(map[string]domain.Credential)}
}

func (m *memCredentialRepo) Create(_ context.Context, cred domain.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.creds[cred.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	m.creds[cred.Email] = cred
	return nil
}

func (m *memCredentialRepo) GetByEmail(_ context.Context, email string) (domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.creds[email]
	if !ok {
		return domain.Credential{}, pgx.ErrNoRows
	}
	return c, nil
}

func setIfPresent(dst *string, val *string) {
	if val != nil {
		*dst = *val
	}
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"factcheck/internal/domain"
	"factcheck/internal/repository"
)

type mockUserRepo struct {
	mu        sync.Mutex
	users     map[string]domain.UserRecord
	creates   int
	getErr    error
	createErr error
	// beforeCreate se ejecuta antes de insertar; permite forzar carreras.
	beforeCreate func()
	// afterGet se ejecuta tras cada lectura, fuera del lock.
	afterGet func()
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]domain.UserRecord)}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.UserRecord, error) {
	u, err := m.getByID(id)
	if m.afterGet != nil {
		m.afterGet()
	}
	return u, err
}

func (m *mockUserRepo) getByID(id string) (domain.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.UserRecord{}, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return domain.UserRecord{}, pgx.ErrNoRows
	}
	// copia el historial para que los lectores no compartan el slice
	u.SettingsHistory = append([]domain.SettingsChange(nil), u.SettingsHistory...)
	return u, nil
}

func (m *mockUserRepo) CreateIfAbsent(_ context.Context, user domain.UserRecord) (domain.UserRecord, error) {
	if m.beforeCreate != nil {
		m.beforeCreate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return domain.UserRecord{}, m.createErr
	}
	if existing, ok := m.users[user.ID]; ok {
		return existing, nil
	}
	m.creates++
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id string, fields domain.ProfileFields, changes []domain.SettingsChange, at time.Time) error {
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

func (m *mockUserRepo) IncrementChecks(_ context.Context, id, feature string, at time.Time) error {
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

func (m *mockUserRepo) TouchLogin(_ context.Context, id string, at time.Time) error {
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

type checkQuery struct {
	userID string
	from   time.Time
	limit  int
}

type mockCheckRepo struct {
	mu       sync.Mutex
	checks   []domain.CheckRecord
	queries  []checkQuery
	queryErr error
	// raw ignora el filtro from; simula un store que devuelve registros anomalos.
	raw bool
}

func (m *mockCheckRepo) Create(_ context.Context, check domain.CheckRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks = append(m.checks, check)
	return nil
}

func (m *mockCheckRepo) QueryChecks(_ context.Context, userID string, from time.Time, limit int) ([]domain.CheckRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, checkQuery{userID: userID, from: from, limit: limit})
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	var out []domain.CheckRecord
	for _, c := range m.checks {
		if c.UserID != userID {
			continue
		}
		if !m.raw && c.CheckedAt.Before(from) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckedAt.After(out[j].CheckedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockCredentialRepo struct {
	mu      sync.Mutex
	byEmail map[string]domain.Credential
	err     error
}

func newMockCredentialRepo() *mockCredentialRepo {
	return &mockCredentialRepo{byEmail: make(map[string]domain.Credential)}
}

func (m *mockCredentialRepo) Create(_ context.Context, cred domain.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byEmail[cred.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	m.byEmail[cred.Email] = cred
	return nil
}

func (m *mockCredentialRepo) GetByEmail(_ context.Context, email string) (domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.Credential{}, m.err
	}
	c, ok := m.byEmail[email]
	if !ok {
		return domain.Credential{}, pgx.ErrNoRows
	}
	return c, nil
}

type mockVerifier struct {
	subject domain.VerifiedSubject
	err     error
	calls   int
	mu      sync.Mutex
}

func (m *mockVerifier) VerifyToken(_ context.Context, _ string) (domain.VerifiedSubject, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.subject, m.err
}

type mockLimiter struct {
	allow bool
}

func (m *mockLimiter) Allow(_ context.Context, _ string) bool {
	return m.allow
}

func setIfPresent(dst *string, val *string) {
	if val != nil {
		*dst = *val
	}
}

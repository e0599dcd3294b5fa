package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"factcheck/internal/domain"
)

var fixedNow = time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)

func newTestAuthenticator(verifier IdentityVerifier, users *mockUserRepo) *Authenticator {
	a := NewAuthenticator(zap.NewNop(), verifier, users)
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"valid", "Bearer abc", "abc", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"surrounding spaces", "  Bearer   abc  ", "abc", true},
		{"empty", "", "", false},
		{"scheme only", "Bearer", "", false},
		{"scheme with blank token", "Bearer    ", "", false},
		{"basic auth", "Basic dXNlcjpwYXNz", "", false},
		{"no space", "Bearerabc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestAuthenticate_MissingCredential(t *testing.T) {
	verifier := &mockVerifier{}
	a := newTestAuthenticator(verifier, newMockUserRepo())

	for _, header := range []string{"", "Token abc", "Bearer "} {
		_, err := a.Authenticate(context.Background(), header)
		assert.ErrorIs(t, err, ErrCredentialMissing, "header %q", header)
	}
	assert.Zero(t, verifier.calls)
}

func TestAuthenticate_VerificationFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"expired", ErrTokenExpired, ErrCredentialExpired},
		{"revoked", ErrTokenRevoked, ErrCredentialRevoked},
		{"invalid", ErrTokenInvalid, ErrCredentialInvalid},
		{"wrapped expired", errors.Join(errors.New("ctx"), ErrTokenExpired), ErrCredentialExpired},
		{"provider unavailable", errors.New("dial tcp: connection refused"), ErrCredentialInvalid},
		{"timeout", context.DeadlineExceeded, ErrCredentialInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMockUserRepo()
			a := newTestAuthenticator(&mockVerifier{err: tt.err}, users)

			_, err := a.Authenticate(context.Background(), "Bearer token")
			assert.ErrorIs(t, err, tt.expected)
			assert.Zero(t, users.creates)
		})
	}
}

func TestAuthenticate_EmptySubjectIsInvalid(t *testing.T) {
	a := newTestAuthenticator(&mockVerifier{subject: domain.VerifiedSubject{Email: "x@example.com"}}, newMockUserRepo())
	_, err := a.Authenticate(context.Background(), "Bearer token")
	assert.ErrorIs(t, err, ErrCredentialInvalid)
}

func TestAuthenticate_ProvisionsNewUser(t *testing.T) {
	users := newMockUserRepo()
	verifier := &mockVerifier{subject: domain.VerifiedSubject{
		ID:            "u1",
		Email:         "Jane.Doe@Example.com",
		DisplayName:   "Jane Van Doe",
		EmailVerified: true,
		TokenID:       "jti-1",
	}}
	a := newTestAuthenticator(verifier, users)

	identity, err := a.Authenticate(context.Background(), "Bearer token")
	require.NoError(t, err)

	assert.Equal(t, "u1", identity.UserID)
	assert.Equal(t, "Jane.Doe@Example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "jti-1", identity.TokenID)

	assert.Equal(t, 1, users.creates)
	stored, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", stored.Email)
	assert.Equal(t, "Jane", stored.FirstName)
	assert.Equal(t, "Van Doe", stored.LastName)
	assert.True(t, stored.IsVerified)
	assert.Zero(t, stored.Stats.LinksChecked)
	assert.Equal(t, fixedNow, stored.CreatedAt)
	assert.Equal(t, fixedNow, stored.LastLoginAt)
	assert.Equal(t, stored, identity.User)
}

func TestAuthenticate_ExistingUserNotOverwritten(t *testing.T) {
	users := newMockUserRepo()
	created := fixedNow.Add(-30 * 24 * time.Hour)
	users.users["u1"] = domain.UserRecord{
		ID:        "u1",
		Email:     "old@example.com",
		FirstName: "Old",
		Profile:   domain.Profile{Bio: "hello"},
		Stats:     domain.UserStats{LinksChecked: 42},
		CreatedAt: created,
	}
	verifier := &mockVerifier{subject: domain.VerifiedSubject{
		ID:          "u1",
		Email:       "new@example.com",
		DisplayName: "New Name",
	}}
	a := newTestAuthenticator(verifier, users)

	identity, err := a.Authenticate(context.Background(), "Bearer token")
	require.NoError(t, err)

	assert.Zero(t, users.creates)
	assert.Equal(t, "new@example.com", identity.Email)
	assert.Equal(t, "old@example.com", identity.User.Email)
	assert.Equal(t, "Old", identity.User.FirstName)
	assert.Equal(t, "hello", identity.User.Profile.Bio)
	assert.Equal(t, 42, identity.User.Stats.LinksChecked)
	assert.Equal(t, created, identity.User.CreatedAt)
}

func TestAuthenticate_ConcurrentFirstSightCreatesOneRecord(t *testing.T) {
	users := newMockUserRepo()
	var arrived sync.WaitGroup
	arrived.Add(2)
	users.beforeCreate = func() {
		arrived.Done()
		arrived.Wait()
	}
	verifier := &mockVerifier{subject: domain.VerifiedSubject{ID: "new-user", Email: "n@example.com"}}
	a := newTestAuthenticator(verifier, users)

	var wg sync.WaitGroup
	results := make([]domain.IdentityContext, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = a.Authenticate(context.Background(), "Bearer token")
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, users.creates)
	assert.Len(t, users.users, 1)
	assert.Equal(t, results[0].User, results[1].User)
	assert.Equal(t, "new-user", results[0].UserID)
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	users := newMockUserRepo()
	users.getErr = errors.New("connection reset")
	a := newTestAuthenticator(&mockVerifier{subject: domain.VerifiedSubject{ID: "u1"}}, users)

	_, err := a.Authenticate(context.Background(), "Bearer token")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestAuthenticate_ProvisionFailurePreservesDeadline(t *testing.T) {
	users := newMockUserRepo()
	users.createErr = context.DeadlineExceeded
	a := newTestAuthenticator(&mockVerifier{subject: domain.VerifiedSubject{ID: "u1"}}, users)

	_, err := a.Authenticate(context.Background(), "Bearer token")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAuthenticateOptional(t *testing.T) {
	users := newMockUserRepo()
	users.users["u1"] = domain.UserRecord{ID: "u1", Email: "u1@example.com"}

	t.Run("missing header", func(t *testing.T) {
		a := newTestAuthenticator(&mockVerifier{}, users)
		assert.Nil(t, a.AuthenticateOptional(context.Background(), ""))
	})

	t.Run("invalid token", func(t *testing.T) {
		a := newTestAuthenticator(&mockVerifier{err: ErrTokenInvalid}, users)
		assert.Nil(t, a.AuthenticateOptional(context.Background(), "Bearer bad"))
	})

	t.Run("valid token existing user", func(t *testing.T) {
		a := newTestAuthenticator(&mockVerifier{subject: domain.VerifiedSubject{ID: "u1", Email: "u1@example.com"}}, users)
		identity := a.AuthenticateOptional(context.Background(), "Bearer good")
		require.NotNil(t, identity)
		assert.Equal(t, "u1", identity.UserID)
	})

	t.Run("valid token unknown user is not provisioned", func(t *testing.T) {
		a := newTestAuthenticator(&mockVerifier{subject: domain.VerifiedSubject{ID: "ghost"}}, users)
		assert.Nil(t, a.AuthenticateOptional(context.Background(), "Bearer good"))
		_, err := users.GetByID(context.Background(), "ghost")
		assert.Error(t, err)
	})
}

package token_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rights-service/internal/domain/user"
	"rights-service/internal/keys"
	"rights-service/internal/token"
)

const (
	testKeyName  = "jwt-signing-key"
	testValidity = 20 * time.Minute
)

var defaultTime = time.Date(2015, time.October, 26, 11, 50, 32, 0, time.UTC)

func fixedClock(at time.Time) token.Clock {
	return func() time.Time { return at }
}

func newService(store keys.Manager, at time.Time) *token.Service {
	return token.NewService(store, testKeyName, testValidity, fixedClock(at))
}

func testUser() *user.User {
	return &user.User{Pseudo: "alice"}
}

func TestIssueAndValidate(t *testing.T) {
	store := keys.NewMemoryStore()
	svc := newService(store, defaultTime)

	signed, err := svc.Issue(context.Background(), testUser())
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	valid, err := svc.Validate(context.Background(), signed)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestIssue_Claims(t *testing.T) {
	store := keys.NewMemoryStore()
	svc := newService(store, defaultTime)

	signed, err := svc.Issue(context.Background(), testUser())
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), signed)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Issuer)
	assert.True(t, claims.IssuedAt.Time.Equal(defaultTime))
	assert.True(t, claims.ExpiresAt.Time.Equal(defaultTime.Add(testValidity)))
}

func TestValidate_TimeWindow(t *testing.T) {
	store := keys.NewMemoryStore()
	issuer := newService(store, defaultTime)

	signed, err := issuer.Issue(context.Background(), testUser())
	require.NoError(t, err)

	tests := []struct {
		name     string
		at       time.Time
		expected bool
	}{
		{"at issue time", defaultTime, true},
		{"inside window", defaultTime.Add(testValidity / 2), true},
		{"just before expiry", defaultTime.Add(testValidity - time.Second), true},
		{"just after expiry", defaultTime.Add(testValidity + time.Second), false},
		{"long after expiry", defaultTime.Add(5 * 365 * 24 * time.Hour), false},
		{"before issue time", defaultTime.Add(-time.Second), false},
		{"long before issue time", defaultTime.Add(-5 * 365 * 24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := newService(store, tt.at)
			valid, err := verifier.Validate(context.Background(), signed)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, valid)
		})
	}
}

func TestValidate_WrongSigningKey(t *testing.T) {
	store := keys.NewMemoryStore()

	forger := token.NewService(store, "fake-keys", testValidity, fixedClock(defaultTime))
	signed, err := forger.Issue(context.Background(), testUser())
	require.NoError(t, err)

	verifier := newService(store, defaultTime)
	valid, err := verifier.Validate(context.Background(), signed)
	require.NoError(t, err)
	assert.False(t, valid, "token signed with another key must not validate")
}

func TestValidate_Idempotent(t *testing.T) {
	store := keys.NewMemoryStore()
	svc := newService(store, defaultTime)

	signed, err := svc.Issue(context.Background(), testUser())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		valid, err := svc.Validate(context.Background(), signed)
		require.NoError(t, err)
		assert.True(t, valid)
	}

	expired := newService(store, defaultTime.Add(testValidity+time.Hour))
	for i := 0; i < 3; i++ {
		valid, err := expired.Validate(context.Background(), signed)
		require.NoError(t, err)
		assert.False(t, valid)
	}
}

func TestValidate_GarbageToken(t *testing.T) {
	store := keys.NewMemoryStore()
	svc := newService(store, defaultTime)

	valid, err := svc.Validate(context.Background(), "not.a.token")
	require.NoError(t, err)
	assert.False(t, valid)
}

type failingManager struct{}

func (failingManager) Load(context.Context, string, keys.KeyType) (*keys.KeyPair, error) {
	return nil, errors.New("key store unreachable")
}

func TestKeyManagerFailureIsSurfaced(t *testing.T) {
	svc := token.NewService(failingManager{}, testKeyName, testValidity, fixedClock(defaultTime))

	_, err := svc.Issue(context.Background(), testUser())
	require.ErrorIs(t, err, token.ErrKeyUnavailable)

	valid, err := svc.Validate(context.Background(), "irrelevant")
	assert.False(t, valid)
	require.ErrorIs(t, err, token.ErrKeyUnavailable)
}

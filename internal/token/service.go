package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rights-service/internal/domain/user"
	"rights-service/internal/keys"
)

const headerTyp = "JWT"

// ErrKeyUnavailable marks a key-manager failure for the configured signing
// key name. This is a fatal misconfiguration, distinct from a token that
// merely fails validation.
var ErrKeyUnavailable = errors.New("signing key unavailable")

// Clock supplies the current instant. Injected so token lifetimes are
// deterministic under test.
type Clock func() time.Time

// Service issues and validates ES512-signed tokens bound to a user
// identity. It owns no key material; keys are resolved by name through the
// key manager on every operation.
type Service struct {
	keys           keys.Manager
	signingKeyName string
	validity       time.Duration
	now            Clock
}

func NewService(manager keys.Manager, signingKeyName string, validity time.Duration, clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		keys:           manager,
		signingKeyName: signingKeyName,
		validity:       validity,
		now:            clock,
	}
}

// Issue mints a signed token for the user: issuer is the user's pseudo,
// valid from now until now plus the configured validity period.
func (s *Service) Issue(ctx context.Context, u *user.User) (string, error) {
	pair, err := s.loadKey(ctx)
	if err != nil {
		return "", err
	}

	issuedAt := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    u.Pseudo,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.validity)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES512, claims)
	token.Header["typ"] = headerTyp

	signed, err := token.SignedString(pair.Private)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature against the named key and the time-validity
// window, returning the claims of a valid token.
func (s *Service) Verify(ctx context.Context, raw string) (*jwt.RegisteredClaims, error) {
	pair, err := s.loadKey(ctx)
	if err != nil {
		return nil, err
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return pair.Public(), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodES512.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// Validate is the boolean form of Verify. An unverifiable, expired, or
// not-yet-valid token reads as false; only a key-manager failure is
// surfaced as an error.
func (s *Service) Validate(ctx context.Context, raw string) (bool, error) {
	_, err := s.Verify(ctx, raw)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrKeyUnavailable) {
		return false, err
	}
	return false, nil
}

func (s *Service) loadKey(ctx context.Context) (*keys.KeyPair, error) {
	pair, err := s.keys.Load(ctx, s.signingKeyName, keys.TypeECDSA)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrKeyUnavailable, s.signingKeyName, err)
	}
	return pair, nil
}

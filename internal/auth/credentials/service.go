package credentials

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"gamevault/internal/auth"
	"gamevault/internal/kvstore"

	"github.com/google/uuid"
)

var (
	ErrAlreadyRegistered = errors.New("credentials: account already exists")
	ErrWeakPassword      = errors.New("credentials: password too short")
	ErrSignupContended   = errors.New("credentials: signup already in progress")
)

const minPasswordLen = 8

// Service owns password-based registration and authentication against
// the user store.
type Service struct {
	users   auth.UserStore
	hasher  Hasher
	locks   kvstore.Store
	lockTTL time.Duration
}

func NewService(users auth.UserStore, hasher Hasher, locks kvstore.Store, lockTTL time.Duration) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		locks:   locks,
		lockTTL: lockTTL,
	}
}

// Register creates a principal with the default role. A short advisory
// lock on the username keeps two concurrent signups for the same name
// from racing past the uniqueness check.
func (s *Service) Register(ctx context.Context, username, email, password string) (*auth.Principal, error) {

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" {
		return nil, errors.New("credentials: username and email are required")
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	lockKey := "lock:signup:" + strings.ToLower(username)
	held, err := s.locks.AcquireLock(ctx, lockKey, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !held {
		return nil, ErrSignupContended
	}
	defer s.locks.ReleaseLock(context.WithoutCancel(ctx), lockKey)

	if existing, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrAlreadyRegistered
	}
	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	p := &auth.Principal{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		Digest:   digest,
		Role:     auth.RoleUser,
	}

	if err := s.users.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Authenticate verifies a username/password pair. Unknown accounts and
// wrong passwords produce the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*auth.Principal, error) {

	p, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, auth.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, p.Digest) {
		return nil, auth.ErrInvalidCredentials
	}

	return p, nil
}

// ProvisionIdentity resolves an external OIDC identity to a principal,
// creating one on first login. Provisioned accounts get a random
// unusable digest so the never-empty digest invariant holds; password
// login stays rejected until a password is set.
func (s *Service) ProvisionIdentity(ctx context.Context, identity *auth.Identity) (*auth.Principal, error) {

	if identity == nil || identity.Email == "" {
		return nil, errors.New("credentials: identity missing email")
	}

	email := strings.ToLower(identity.Email)

	p, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	random := make([]byte, 32)
	if _, err := rand.Read(random); err != nil {
		return nil, fmt.Errorf("credentials: provisioning failed: %w", err)
	}
	digest, err := s.hasher.Hash(base64.RawURLEncoding.EncodeToString(random))
	if err != nil {
		return nil, err
	}

	p = &auth.Principal{
		ID:       uuid.NewString(),
		Username: email,
		Email:    email,
		Digest:   digest,
		Role:     auth.RoleUser,
	}

	if err := s.users.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

package credentials

import (
	"context"
	"errors"
	"testing"
	"time"

	"gamevault/internal/auth"
	"gamevault/internal/kvstore"
	"gamevault/internal/userstore"
)

func newTestService() (*Service, *userstore.Memory, kvstore.Store) {
	users := userstore.NewMemory()
	locks := kvstore.NewMemory()
	return NewService(users, testHasher(), locks, time.Second), users, locks
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	p, err := svc.Register(ctx, "alice", "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.Digest == "" {
		t.Fatalf("registered principal has empty digest")
	}
	if p.Role != auth.RoleUser {
		t.Fatalf("default role: got %s, want %s", p.Role, auth.RoleUser)
	}

	got, err := svc.Authenticate(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("authenticated as wrong principal")
	}
}

func TestAuthenticateUniformRejection(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	svc.Register(ctx, "alice", "alice@example.com", "correct-horse")

	_, wrongPassword := svc.Authenticate(ctx, "alice", "wrong")
	_, unknownUser := svc.Authenticate(ctx, "nobody", "whatever")

	if !errors.Is(wrongPassword, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", wrongPassword)
	}
	// Same kind for both, so responses cannot reveal which part failed.
	if !errors.Is(unknownUser, auth.ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v", unknownUser)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	if _, err := svc.Register(ctx, "alice", "other@example.com", "password-two"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("duplicate username: got %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "alice@example.com", "password-two"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("duplicate email: got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Register(context.Background(), "alice", "a@example.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("got %v, want ErrWeakPassword", err)
	}
}

func TestRegisterSignupLockContention(t *testing.T) {
	ctx := context.Background()
	svc, _, locks := newTestService()

	// Simulate another request mid-signup for the same username.
	held, _ := locks.AcquireLock(ctx, "lock:signup:alice", time.Minute)
	if !held {
		t.Fatalf("setup lock not acquired")
	}

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "correct-horse"); !errors.Is(err, ErrSignupContended) {
		t.Fatalf("got %v, want ErrSignupContended", err)
	}
}

func TestRegisterReleasesLock(t *testing.T) {
	ctx := context.Background()
	svc, _, locks := newTestService()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	held, _ := locks.AcquireLock(ctx, "lock:signup:alice", time.Second)
	if !held {
		t.Fatalf("signup lock still held after Register returned")
	}
}

func TestProvisionIdentity(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	identity := &auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-1",
		Email:          "Carol@Example.com",
		EmailVerified:  true,
	}

	p, err := svc.ProvisionIdentity(ctx, identity)
	if err != nil {
		t.Fatalf("ProvisionIdentity: %v", err)
	}
	if p.Digest == "" {
		t.Fatalf("provisioned principal has empty digest")
	}

	// Second login resolves to the same account.
	again, err := svc.ProvisionIdentity(ctx, identity)
	if err != nil {
		t.Fatalf("second ProvisionIdentity: %v", err)
	}
	if again.ID != p.ID {
		t.Fatalf("provisioning created a duplicate account")
	}

	// The random digest is unusable for password login.
	if _, err := svc.Authenticate(ctx, p.Username, "anything-at-all"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("provisioned account accepted a password: %v", err)
	}
}

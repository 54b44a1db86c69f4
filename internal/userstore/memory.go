package userstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gamevault/internal/auth"

	"github.com/google/uuid"
)

// Memory implements auth.UserStore in process, for tests and local
// development without Postgres.
type Memory struct {
	mu    sync.Mutex
	users map[string]*auth.Principal // keyed by id
}

var _ auth.UserStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{users: make(map[string]*auth.Principal)}
}

func clone(p *auth.Principal) *auth.Principal {
	cp := *p
	return &cp
}

func (s *Memory) FindByID(ctx context.Context, id string) (*auth.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return clone(p), nil
}

func (s *Memory) FindByUsername(ctx context.Context, username string) (*auth.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.users {
		if strings.EqualFold(p.Username, username) {
			return clone(p), nil
		}
	}
	return nil, nil
}

func (s *Memory) FindByEmail(ctx context.Context, email string) (*auth.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.users {
		if strings.EqualFold(p.Email, email) {
			return clone(p), nil
		}
	}
	return nil, nil
}

func (s *Memory) Create(ctx context.Context, p *auth.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Digest == "" {
		return errors.New("userstore: refusing to create principal with empty digest")
	}
	if p.Role == "" {
		p.Role = auth.RoleUser
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, p.Username) ||
			strings.EqualFold(existing.Email, p.Email) {
			return errors.New("userstore: duplicate username or email")
		}
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.users[p.ID] = clone(p)
	return nil
}

func (s *Memory) UpdateDigest(ctx context.Context, id, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if digest == "" {
		return errors.New("userstore: refusing to clear a digest")
	}
	p, ok := s.users[id]
	if !ok {
		return errors.New("userstore: no such principal")
	}
	p.Digest = digest
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes a principal outright. Only tests use this, to simulate
// sessions that outlive their account.
func (s *Memory) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

package session

import (
	"context"
	"strings"
	"time"

	"gamevault/internal/kvstore"
	"gamevault/internal/logger"
)

const (
	keyPrefix   = "session:"
	indexPrefix = "sessions:index:"
)

// Manager owns the session lifecycle against the key-value store.
// Expiry is enforced entirely by the store's TTL; the manager never
// inspects timestamps to decide whether a session is alive.
type Manager struct {
	store kvstore.Store
	ttl   time.Duration
}

func NewManager(store kvstore.Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) key(id string) string {
	return keyPrefix + id
}

// Create makes a fresh session for principalID (empty for anonymous),
// persists it with the full TTL, and indexes it under the principal so
// every session of an account can be revoked at once.
func (m *Manager) Create(ctx context.Context, principalID string) (*Session, error) {

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:          id,
		PrincipalID: principalID,
		CreatedAt:   time.Now().UTC(),
		CSRFTokens:  []string{},
		Data:        map[string]string{},
	}

	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}

	if principalID != "" {
		if _, err := m.store.SAdd(ctx, indexPrefix+principalID, id); err != nil {
			// An unindexed session would survive a later revoke-all, so
			// take the blob back out before failing.
			if _, delErr := m.store.Delete(ctx, m.key(id)); delErr != nil {
				logger.Warn("session rollback failed", map[string]any{
					"error": delErr.Error(),
				})
			}
			return nil, err
		}
	}

	return s, nil
}

// Load fetches a session by id. An absent session returns (nil, nil)
// and the caller must treat it as "not authenticated". A blob that is
// present but undecodable returns ErrCorrupt.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {

	raw, found, err := m.store.Get(ctx, m.key(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	return Decode(id, raw)
}

// Save rewrites the session blob with the full TTL, implementing
// sliding expiration. Concurrent saves of the same session are
// last-write-wins. When the store call times out the write may or may
// not have landed; callers must not assume either.
func (m *Manager) Save(ctx context.Context, s *Session) error {

	raw, err := s.Encode()
	if err != nil {
		return err
	}

	_, err = m.store.Set(ctx, m.key(s.ID), raw, m.ttl, false)
	return err
}

// Delete removes the session. Deleting an already-gone session is fine.
func (m *Manager) Delete(ctx context.Context, id string) error {
	_, err := m.store.Delete(ctx, m.key(id))
	return err
}

// DeleteAllForPrincipal revokes every session recorded for a principal.
// The index may reference already-expired ids; deleting those is a
// no-op.
func (m *Manager) DeleteAllForPrincipal(ctx context.Context, principalID string) error {

	indexKey := indexPrefix + principalID

	ids, err := m.store.SMembers(ctx, indexKey)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := m.Delete(ctx, id); err != nil {
			return err
		}
	}

	_, err = m.store.Delete(ctx, indexKey)
	return err
}

// IssueCSRFToken mints a token bound to this session and persists it.
func (m *Manager) IssueCSRFToken(ctx context.Context, s *Session) (string, error) {

	token, err := NewCSRFToken()
	if err != nil {
		return "", err
	}

	s.CSRFTokens = append(s.CSRFTokens, token)

	if err := m.Save(ctx, s); err != nil {
		return "", err
	}

	return token, nil
}

// ActiveSessionIDs lists ids of live sessions, for the admin surface.
// Bounded by the store's scan cursor protocol.
func (m *Manager) ActiveSessionIDs(ctx context.Context) ([]string, error) {
	keys, err := m.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, keyPrefix))
	}
	return ids, nil
}

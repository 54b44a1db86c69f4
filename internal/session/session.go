// Package session implements server-side sessions stored as opaque JSON
// blobs in the key-value store, keyed by an unguessable id that doubles
// as the cookie value.
package session

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCorrupt marks a session blob that was present in the store but
// failed to decode. Distinct from an absent session: absent means
// "please log in", corrupt is an operational fault worth alerting on.
var ErrCorrupt = errors.New("session: corrupt session data")

// Session is the server-side record behind one browsing context.
// PrincipalID is empty for anonymous sessions. Instances live for a
// single request; the store is the source of truth between requests.
type Session struct {
	ID          string            `json:"-"`
	PrincipalID string            `json:"principal_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	CSRFTokens  []string          `json:"csrf_tokens"`
	Data        map[string]string `json:"data"`
}

// Anonymous reports whether the session has no associated principal.
func (s *Session) Anonymous() bool {
	return s.PrincipalID == ""
}

// HasCSRFToken checks token against the issued set in constant time per
// candidate. Token order in the set carries no meaning for validity.
func (s *Session) HasCSRFToken(token string) bool {
	if token == "" {
		return false
	}
	var match bool
	for _, issued := range s.CSRFTokens {
		if subtle.ConstantTimeCompare([]byte(issued), []byte(token)) == 1 {
			match = true
		}
	}
	return match
}

// Encode serializes everything except the id, which is the store key.
func (s *Session) Encode() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("session: encode failed: %w", err)
	}
	return string(raw), nil
}

// Decode rebuilds a Session from a stored blob. Undecodable input is a
// corruption error, never treated as absent.
func Decode(id, raw string) (*Session, error) {
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	s.ID = id
	if s.CSRFTokens == nil {
		s.CSRFTokens = []string{}
	}
	if s.Data == nil {
		s.Data = map[string]string{}
	}
	return &s, nil
}

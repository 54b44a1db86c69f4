// Package resolver turns a session cookie value into an authenticated,
// role-aware request context.
package resolver

import (
	"context"
	"fmt"

	"gamevault/internal/auth"
	"gamevault/internal/session"
)

// Context is the per-request result of a successful resolution. It is
// built once at the entry point and passed down explicitly.
type Context struct {
	Principal *auth.Principal
	Session   *session.Session
}

// RequireRole enforces a minimum role on an already-authenticated
// context. Insufficient role is Forbidden, never Unauthenticated.
func (c *Context) RequireRole(min auth.Role) error {
	if !c.Principal.Role.AtLeast(min) {
		return fmt.Errorf("%w: have %s, need %s", auth.ErrForbidden, c.Principal.Role, min)
	}
	return nil
}

// Resolver resolves session ids against the session manager and the
// user store.
type Resolver struct {
	sessions *session.Manager
	users    auth.UserStore
}

func New(sessions *session.Manager, users auth.UserStore) *Resolver {
	return &Resolver{sessions: sessions, users: users}
}

// Resolve maps a raw cookie value to a Context. Every "please log in"
// case returns ErrUnauthenticated; corrupt sessions and store failures
// keep their own error kinds so the transport can map them to 500/503.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) (*Context, error) {

	if sessionID == "" {
		return nil, auth.ErrUnauthenticated
	}

	sess, err := r.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, auth.ErrUnauthenticated
	}

	if sess.Anonymous() {
		return nil, auth.ErrUnauthenticated
	}

	principal, err := r.users.FindByID(ctx, sess.PrincipalID)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		// Dangling session for a deleted account. Invalid, not an
		// error; drop the stale session while we are here.
		_ = r.sessions.Delete(ctx, sessionID)
		return nil, auth.ErrUnauthenticated
	}

	return &Context{Principal: principal, Session: sess}, nil
}

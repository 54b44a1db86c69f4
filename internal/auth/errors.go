package auth

import "errors"

var (
	// ErrUnauthenticated covers every "please log in" outcome: missing
	// cookie, absent or anonymous session, dangling principal reference.
	ErrUnauthenticated = errors.New("auth: not authenticated")

	// ErrForbidden means the session is valid but the role is too low.
	ErrForbidden = errors.New("auth: insufficient role")

	// ErrInvalidCredentials is returned for both unknown accounts and
	// wrong passwords so responses cannot be used for user enumeration.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

package auth

import "time"

// Role is the privilege level of a principal. Roles form a total order:
// user < admin < superuser.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

var roleRank = map[Role]int{
	RoleUser:      1,
	RoleAdmin:     2,
	RoleSuperuser: 3,
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the privileges of min.
// Unknown roles rank below everything.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// Principal is an authenticated account. Digest is the opaque password
// hash and is never empty once the account exists.
type Principal struct {
	ID        string
	Username  string
	Email     string
	Digest    string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

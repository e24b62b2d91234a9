package domain

// Role controls which navigation entries and dashboard variant a user sees.
type Role string

const (
	RoleRequestor Role = "requestor"
	RoleApprover  Role = "approver"
	RoleAccounts  Role = "accounts"
	RoleAdmin     Role = "admin"
)

// Roles returns every role in a stable order.
func Roles() []Role {
	return []Role{RoleRequestor, RoleApprover, RoleAccounts, RoleAdmin}
}

// ParseRole reports whether s names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// ResolveRole maps s to a role, falling back to requestor for anything
// unknown. Stored rows and token claims are not trusted to hold a valid role.
func ResolveRole(s string) Role {
	if r, ok := ParseRole(s); ok {
		return r
	}
	return RoleRequestor
}

func (r Role) Valid() bool {
	switch r {
	case RoleRequestor, RoleApprover, RoleAccounts, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

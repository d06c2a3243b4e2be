package authorization

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSubscriber UserRole = "subscriber"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleSubscriber
}

func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleSubscriber
}

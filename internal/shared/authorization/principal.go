package authorization

// Capability names checked against the permission enforcer.
const (
	ResourceReplacementRequests = "replacement_requests"
	ActionManage                = "manage"
)

// AdminPrincipal is proof that the caller passed the administrative
// capability check. Admin use cases accept it as a parameter instead of
// re-deriving authorization from the request.
type AdminPrincipal struct {
	subject string
}

// NewAdminPrincipal wraps an authorized subject. Only the permission
// middleware should call this, after the enforcer allowed the subject.
func NewAdminPrincipal(subject string) AdminPrincipal {
	return AdminPrincipal{subject: subject}
}

// Subject returns the administrator identity.
func (p AdminPrincipal) Subject() string {
	return p.subject
}

// IsZero reports whether the principal was never granted.
func (p AdminPrincipal) IsZero() bool {
	return p.subject == ""
}

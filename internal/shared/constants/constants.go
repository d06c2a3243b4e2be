package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default list limit for admin queries
	DefaultListLimit = 50
	MaxListLimit     = 200

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeySubjectID      = "subject_id"
	ContextKeyUserRole       = "user_role"
	ContextKeyAdminPrincipal = "admin_principal"

	// Database table names
	TableReplacementRequests = "replacement_requests"
	TableSubscriberLocks     = "replacement_subscriber_locks"
)

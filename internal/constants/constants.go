package constants

// Context keys
const (
	ContextKeyUser      = "current_user"
	ContextKeyPrincipal = "principal"
)

// Validation limits
const (
	MinPasswordLength = 8
)

// Pagination defaults
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

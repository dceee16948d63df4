package middleware

import "matchos/internal/privacy"

const (
	// Header used by internal callers (request-service, bot orchestrator)
	APIKeyHeader = "API_KEY"

	AdminRole    = privacy.RoleAdmin
	ProviderRole = privacy.RoleProvider
	UserRole     = privacy.RoleUser
)

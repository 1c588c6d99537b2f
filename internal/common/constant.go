package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// RequestIDHeaderName is the HTTP header used to propagate request ids.
const RequestIDHeaderName = "X-Request-ID"

// Roles recognised by the service. Only RoleAdmin is privileged.
const (
	RoleVisitor = "visitor"
	RoleAdmin   = "admin"
)

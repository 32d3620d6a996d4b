package domain

// ValidationError indicates missing or malformed input. Mapped to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a validation error
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// AuthError indicates an unauthenticated or unauthorized store, or a failed
// CSRF / token-exchange step. Mapped to 401.
type AuthError struct {
	Message string
	Detail  string
}

func (e *AuthError) Error() string { return e.Message }

// NewAuthError creates an auth error
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// NotFoundError indicates an unknown store or resource. Mapped to 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NewNotFoundError creates a not-found error
func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// UpstreamUnavailableError indicates the commerce platform or AI backend is
// unreachable or erroring. Mapped to 422 or 502 depending on the call site.
type UpstreamUnavailableError struct {
	Message string
}

func (e *UpstreamUnavailableError) Error() string { return e.Message }

// NewUpstreamUnavailableError creates an upstream-unavailable error
func NewUpstreamUnavailableError(message string) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{Message: message}
}

// TokenDeniedError carries the upstream error description from a failed
// authorization-code exchange.
type TokenDeniedError struct {
	Status      int
	Description string
}

func (e *TokenDeniedError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return "token exchange was denied"
}

// UpstreamError carries a structured failure reported by the AI backend.
type UpstreamError struct {
	Status      int
	Message     string
	Suggestions []string
}

func (e *UpstreamError) Error() string { return e.Message }

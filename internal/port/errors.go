package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrUpstream           = errors.New("upstream service error")
	ErrNotConfigured      = errors.New("identity provider not configured")
	ErrUnknownContentType = errors.New("unknown content type")
	ErrUnknownLLM         = errors.New("unknown llm")
)

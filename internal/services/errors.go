package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrValidation           = errors.New("validation failed")
	ErrAvailabilityConflict = errors.New("requested slot is not available")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrPastDeadline         = errors.New("cancellation deadline has passed")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrAlreadyExists        = errors.New("resource already exists")
)

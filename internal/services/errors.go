package services

import "errors"

// Common service errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidState      = errors.New("invalid state transition")
	ErrAlreadyExists     = errors.New("record already exists")
	ErrUnsupportedFormat = errors.New("unsupported receipt format")
	ErrEmailDisabled     = errors.New("email delivery is not configured")
)

package domain

import "errors"

// Domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalError  = errors.New("internal error")
	ErrUserNotFound   = errors.New("user not found")
	ErrNameRequired   = errors.New("name is required")
	ErrNameTooLong    = errors.New("name exceeds maximum length")
	ErrPDFValidation  = errors.New("budget is missing fields required for the PDF")
	ErrStorageMissing = errors.New("document storage not configured")
)

// Validation constants
const (
	MaxTextFieldLength = 255
)

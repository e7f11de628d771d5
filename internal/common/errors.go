// Package common defines shared constants and sentinel errors used across
// client and server layers of Poshtyar. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")

	// Validation errors are request-shape problems and are reported as bad requests.
	ErrorValidation = fmt.Errorf("validation error: %w", ErrBadRequest)

	// OTP errors. Both are bad-request class.
	ErrOTPInvalid = fmt.Errorf("verification code is incorrect: %w", ErrBadRequest)
	ErrOTPExpired = fmt.Errorf("verification code has expired: %w", ErrBadRequest)

	// Auth errors (invalid, malformed, expired or wrong-purpose token).
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidOrExpiredToken is the only error a reset-token consumer ever sees.
	ErrInvalidOrExpiredToken = fmt.Errorf("invalid or expired token: %w", ErrorUnauthorized)

	// Notification delivery failures are internal failures.
	ErrDeliveryFailed = fmt.Errorf("failed to send email: %w", ErrorInternal)

	// Upload errors.
	ErrUnsupportedFileType = fmt.Errorf("unsupported file type: %w", ErrBadRequest)
	ErrFileTooLarge        = fmt.Errorf("file too large: %w", ErrBadRequest)
	ErrNoFile              = fmt.Errorf("no file uploaded: %w", ErrBadRequest)
)

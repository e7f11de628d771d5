package common

import "time"

// SessionCookieName carries the session token between browser and server.
const SessionCookieName = "poshtyar_token"

// ResetPasswordPurpose is the purpose claim of password-reset tokens.
const ResetPasswordPurpose = "reset-password"

const (
	// OTPTTL is how long a one-time code stays valid.
	OTPTTL = 10 * time.Minute
	// ResetTokenTTL is the lifetime embedded in reset tokens.
	ResetTokenTTL = 10 * time.Minute
	// SessionTTL is the default session lifetime (cookie MaxAge and token exp).
	SessionTTL = 24 * time.Hour
)

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

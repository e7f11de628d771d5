// Package models defines server-side data models persisted in the database.
package models

import "time"

// Organizational roles a registering user may claim.
const (
	OrgRoleManager         = "manager"
	OrgRoleTechnical       = "technical"
	OrgRoleOperator        = "operator"
	OrgRolePublicRelations = "public-relations"
)

// OTPChallenge is a pending one-time code. Code and expiry only ever exist
// together, so the record carries them as a single optional value.
type OTPChallenge struct {
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the challenge can no longer be used at now.
// The expiry instant itself is already too late.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// User is an organizational account.
type User struct {
	ID                   string
	CompanyName          string
	CompanyEmail         string
	PasswordHash         string
	Role                 string
	IsVerified           bool
	Challenge            *OTPChallenge
	Avatar               string
	VoicePhoneNumber     string
	Website              string
	OrganizationalRole   string
	ActiveOperatorsCount int
	Balance              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

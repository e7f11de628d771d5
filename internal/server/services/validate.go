package services

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/server/models"
)

const minPasswordLength = 8

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), common.ErrorValidation)
}

// NormalizeEmail trims and lower-cases an address. Emails are stored and
// looked up in this form only.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || strings.ToLower(addr.Address) != email {
		return invalid("email is not valid")
	}
	return nil
}

func validateCode(code string) error {
	if len(code) != 6 {
		return invalid("code must be 6 digits")
	}
	for _, ch := range code {
		if ch < '0' || ch > '9' {
			return invalid("code must be 6 digits")
		}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return invalid("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

var organizationalRoles = map[string]bool{
	models.OrgRoleManager:         true,
	models.OrgRoleTechnical:       true,
	models.OrgRoleOperator:        true,
	models.OrgRolePublicRelations: true,
}

// RegisterInput is what a new organization submits.
type RegisterInput struct {
	CompanyName        string
	CompanyEmail       string
	Password           string
	VoicePhoneNumber   string
	Website            string
	OrganizationalRole string
}

func (in *RegisterInput) normalize() {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.CompanyEmail = NormalizeEmail(in.CompanyEmail)
	in.VoicePhoneNumber = strings.TrimSpace(in.VoicePhoneNumber)
	in.Website = strings.TrimSpace(in.Website)
	in.OrganizationalRole = strings.ToLower(strings.TrimSpace(in.OrganizationalRole))
}

func (in *RegisterInput) validate() error {
	if in.CompanyName == "" {
		return invalid("company name is required")
	}
	if err := validateEmail(in.CompanyEmail); err != nil {
		return err
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if in.VoicePhoneNumber == "" {
		return invalid("voice phone number is required")
	}
	if !organizationalRoles[in.OrganizationalRole] {
		return invalid("organizational role %q is not recognised", in.OrganizationalRole)
	}
	return nil
}

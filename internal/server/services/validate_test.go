package services

import (
	"testing"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ops@acme.io", NormalizeEmail("  OPS@Acme.io\t"))
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"ops@acme.io", "a.b+c@sub.acme.io"} {
		assert.NoError(t, validateEmail(ok), ok)
	}
	for _, bad := range []string{"", "ops", "ops@", "@acme.io", "acme <ops@acme.io>"} {
		assert.ErrorIs(t, validateEmail(bad), common.ErrorValidation, bad)
	}
}

func TestValidateCode(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateCode("012345"))
	for _, bad := range []string{"", "12345", "1234567", "12345a", "١٢٣٤٥٦"} {
		assert.ErrorIs(t, validateCode(bad), common.ErrorValidation, bad)
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validatePassword("12345678"))
	assert.ErrorIs(t, validatePassword("1234567"), common.ErrorValidation)
}

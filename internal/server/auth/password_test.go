package auth

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordHasher(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(0)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)

	_, err = NewPasswordHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
	_, err = NewPasswordHasher(1)
	assert.Error(t, err)
}

func TestPasswordHasher_HashAndCompare(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.ErrorIs(t, h.Compare(hash, "wrong horse"), common.ErrorUnauthorized)
}

func TestPasswordHasher_CostIsRecorded(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(bcrypt.MinCost + 1)
	require.NoError(t, err)
	hash, err := h.Hash("pw-12345")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestPasswordHasher_TooLong(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestPasswordHasher_CorruptHash(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	err = h.Compare("not-a-bcrypt-hash", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}

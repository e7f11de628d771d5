package memory

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/poshtyar/internal/common"
	"github.com/dmitrijs2005/poshtyar/internal/server/models"
	"github.com/dmitrijs2005/poshtyar/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repomanager.RepositoryManager = (*Manager)(nil)

func TestUsersRepository_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewUsersRepository()

	u, err := r.Create(ctx, &models.User{CompanyEmail: "ops@acme.io", CompanyName: "Acme"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.Equal(t, common.RoleUser, u.Role)

	_, err = r.Create(ctx, &models.User{CompanyEmail: "ops@acme.io"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	exp := time.Now().Add(time.Minute)
	require.NoError(t, r.SetChallenge(ctx, u.ID, models.OTPChallenge{Code: "123456", ExpiresAt: exp}))

	got, err := r.GetByEmail(ctx, "ops@acme.io")
	require.NoError(t, err)
	require.NotNil(t, got.Challenge)
	assert.Equal(t, "123456", got.Challenge.Code)

	// Returned values are copies.
	got.Challenge.Code = "000000"
	again, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "123456", again.Challenge.Code)

	require.NoError(t, r.ConsumeChallenge(ctx, u.ID))
	again, err = r.GetByEmailForUpdate(ctx, "ops@acme.io")
	require.NoError(t, err)
	assert.Nil(t, again.Challenge)
	assert.True(t, again.IsVerified)

	require.NoError(t, r.UpdatePassword(ctx, u.ID, "h2"))
	require.NoError(t, r.UpdateAvatar(ctx, u.ID, "avatars/a.png"))
	again, _ = r.GetByID(ctx, u.ID)
	assert.Equal(t, "h2", again.PasswordHash)
	assert.Equal(t, "avatars/a.png", again.Avatar)

	assert.ErrorIs(t, r.UpdatePassword(ctx, "ghost", "x"), common.ErrorNotFound)
	_, err = r.GetByEmail(ctx, "ghost@acme.io")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUsersRepository_FailHook(t *testing.T) {
	t.Parallel()
	r := NewUsersRepository()
	r.Fail["GetByEmail"] = common.ErrorInternal

	_, err := r.GetByEmail(context.Background(), "x")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestDocumentsRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewDocumentsRepository()

	d, err := r.Create(ctx, &models.Document{UserID: "u1", StorageKey: "documents/a.enc"})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "documents/a.enc", got.StorageKey)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.Create(ctx, &models.Document{UserID: "u2"})
	require.NoError(t, err)
	list, err := r.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

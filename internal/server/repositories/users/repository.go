package users

import (
	"context"

	"github.com/dmitrijs2005/poshtyar/internal/server/models"
)

// Repository is the credential store. Implementations return
// common.ErrorNotFound for unknown users and common.ErrorAlreadyExists for a
// duplicate company email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByEmailForUpdate is GetByEmail with a row lock; use it inside a transaction.
	GetByEmailForUpdate(ctx context.Context, email string) (*models.User, error)
	SetChallenge(ctx context.Context, userID string, c models.OTPChallenge) error
	// ConsumeChallenge clears the pending code and marks the user verified.
	ConsumeChallenge(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateAvatar(ctx context.Context, userID, avatar string) error
}

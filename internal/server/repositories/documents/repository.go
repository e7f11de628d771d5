package documents

import (
	"context"

	"github.com/dmitrijs2005/poshtyar/internal/server/models"
)

// Repository stores metadata of encrypted document uploads.
type Repository interface {
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	GetByID(ctx context.Context, id string) (*models.Document, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Document, error)
}

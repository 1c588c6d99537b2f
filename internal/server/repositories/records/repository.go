package records

import (
	"context"

	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.UserRecord, error)
	GetByID(ctx context.Context, id string) (*models.UserRecord, error)
	Create(ctx context.Context, r *models.UserRecord) (*models.UserRecord, error)
	Update(ctx context.Context, r *models.UserRecord) (*models.UserRecord, error)
	Delete(ctx context.Context, id string) error
}

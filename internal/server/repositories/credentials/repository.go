package credentials

import (
	"context"

	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Credential) (*models.Credential, error)
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

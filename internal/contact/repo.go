package contact

import (
	"context"

	"github.com/brightloom/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines contact message persistence.
type Repository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

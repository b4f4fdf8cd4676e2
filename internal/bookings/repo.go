package bookings

import (
	"context"
	"errors"

	"github.com/brightloom/storefront-backend/pkg/db/models"
	"github.com/brightloom/storefront-backend/pkg/enums"
	"github.com/brightloom/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines booking persistence.
type Repository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, query ListQuery) ([]models.Booking, *pagination.Cursor, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) (int64, error)
}

// ListQuery filters and paginates booking listings.
type ListQuery struct {
	Status *enums.BookingStatus
	Limit  int
	Cursor *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]models.Booking, *pagination.Cursor, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if query.Cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID,
		)
	}

	limit := pagination.LimitWithBuffer(query.Limit)
	var rows []models.Booking
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	pageSize := pagination.NormalizeLimit(query.Limit)
	if len(rows) <= pageSize {
		return rows, nil, nil
	}
	rows = rows[:pageSize]
	last := rows[len(rows)-1]
	return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// IsNotFound reports whether the error is the driver's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

package orders

import (
	"context"
	"errors"
	"time"

	"github.com/brightloom/storefront-backend/pkg/db"
	"github.com/brightloom/storefront-backend/pkg/db/models"
	"github.com/brightloom/storefront-backend/pkg/enums"
	"github.com/brightloom/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sessionUniqueConstraint matches the migration's unique index on session_id.
const sessionUniqueConstraint = "orders_session_id_key"

// Repository defines the persistence surface for orders.
type Repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, bool, error)
	UpdateStatusByPaymentIntent(ctx context.Context, paymentIntentID string, status enums.OrderStatus) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	List(ctx context.Context, params ListQuery) ([]models.Order, *pagination.Cursor, error)
}

// ListQuery filters and paginates order listings.
type ListQuery struct {
	Status *enums.OrderStatus
	Email  string
	Limit  int
	Cursor *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

// Create inserts the order with its items in one transaction, so a failed
// item insert never leaves a bare order row behind. A duplicate session id is
// treated as a benign replay: the existing row is returned with created=false.
func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		if db.IsUniqueViolation(err, sessionUniqueConstraint) {
			// The replay lookup runs outside the aborted transaction.
			existing, findErr := r.FindBySessionID(ctx, order.SessionID)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return order, true, nil
}

func (r *repository) UpdateStatusByPaymentIntent(ctx context.Context, paymentIntentID string, status enums.OrderStatus) (int64, error) {
	updates := map[string]any{"status": status}
	if status == enums.OrderStatusCompleted {
		now := time.Now().UTC()
		updates["fulfilled_at"] = &now
	}
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_intent_id = ?", paymentIntentID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("session_id = ?", sessionID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Order, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Email != "" {
		query = query.Where("customer_email = ?", params.Email)
	}
	if params.Cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID,
		)
	}

	limit := pagination.LimitWithBuffer(params.Limit)
	var rows []models.Order
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	pageSize := pagination.NormalizeLimit(params.Limit)
	if len(rows) <= pageSize {
		return rows, nil, nil
	}

	rows = rows[:pageSize]
	last := rows[len(rows)-1]
	return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
}

// IsNotFound reports whether the error is the driver's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

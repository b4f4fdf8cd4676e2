package orders

import (
	"context"

	"github.com/brightloom/storefront-backend/pkg/db/models"
	"github.com/brightloom/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/brightloom/storefront-backend/pkg/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service exposes order recording and admin lookups.
type Service interface {
	Record(ctx context.Context, input CreateInput) (*models.Order, bool, error)
	MarkByPaymentIntent(ctx context.Context, paymentIntentID string, status enums.OrderStatus) error
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
	logg     *logger.Logger
}

// NewService validates its dependencies and returns an orders service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders: repository is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders: logger is required")
	}
	return &service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logg:     logg,
	}, nil
}

// Record persists a paid session as an order. Replays of the same session id
// return the previously stored order with created=false.
func (s *service) Record(ctx context.Context, input CreateInput) (*models.Order, bool, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order payload")
	}

	order, created, err := s.repo.Create(ctx, input.toModel())
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to record order")
	}
	if !created {
		lctx := s.logg.WithOrderID(ctx, order.ID.String())
		lctx = s.logg.WithField(lctx, "session_id", order.SessionID)
		s.logg.Info(lctx, "order already recorded for session, skipping insert")
	}
	return order, created, nil
}

// MarkByPaymentIntent applies a status transition to the order that carries
// the payment intent. Transitions are last write wins; an out-of-order event
// overwriting a terminal status is logged but not rejected.
func (s *service) MarkByPaymentIntent(ctx context.Context, paymentIntentID string, status enums.OrderStatus) error {
	if paymentIntentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent id is required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	affected, err := s.repo.UpdateStatusByPaymentIntent(ctx, paymentIntentID, status)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update order status")
	}
	if affected == 0 {
		lctx := s.logg.WithFields(ctx, map[string]any{
			"payment_intent_id": paymentIntentID,
			"status":            status.String(),
		})
		s.logg.Warn(lctx, "no order matched payment intent, event may have arrived before session completion")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	query := ListQuery{
		Email: input.Email,
		Limit: input.Limit,
	}

	if input.Status != "" {
		status, err := enums.ParseOrderStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		query.Status = &status
	}

	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	query.Cursor = cursor

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list orders")
	}

	out := &ListOutput{Orders: rows}
	if next != nil {
		out.NextCursor = pagination.EncodeCursor(*next)
	}
	return out, nil
}

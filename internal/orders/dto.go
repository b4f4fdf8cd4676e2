package orders

import (
	"time"

	"github.com/brightloom/storefront-backend/pkg/db/models"
	"github.com/brightloom/storefront-backend/pkg/enums"
	"github.com/google/uuid"
)

// ItemInput describes one purchased line captured off a checkout session.
type ItemInput struct {
	ProductID  string  `json:"productId" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Quantity   int     `json:"quantity" validate:"required,gte=1"`
	PriceCents int64   `json:"priceCents" validate:"gte=0"`
	Size       *string `json:"size,omitempty"`
	Color      *string `json:"color,omitempty"`
}

// CreateInput is the payload for recording a paid checkout session.
type CreateInput struct {
	SessionID       string      `json:"sessionId" validate:"required"`
	PaymentIntentID string      `json:"paymentIntentId"`
	CustomerEmail   string      `json:"customerEmail"`
	TotalCents      int64       `json:"totalCents" validate:"gte=0"`
	Status          enums.OrderStatus
	Items           []ItemInput `json:"items"`
}

// ListInput carries the listing filters from the admin surface.
type ListInput struct {
	Status string
	Email  string
	Limit  int
	Cursor string
}

// ListOutput is a single page of orders plus the cursor for the next one.
type ListOutput struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

func (in CreateInput) toModel() *models.Order {
	order := &models.Order{
		ID:              uuid.New(),
		SessionID:       in.SessionID,
		PaymentIntentID: in.PaymentIntentID,
		CustomerEmail:   in.CustomerEmail,
		TotalCents:      in.TotalCents,
		Status:          in.Status,
	}
	if order.Status == "" {
		order.Status = enums.OrderStatusPending
	}
	if order.Status == enums.OrderStatusCompleted {
		now := time.Now().UTC()
		order.FulfilledAt = &now
	}
	for _, item := range in.Items {
		order.Items = append(order.Items, models.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			ProductID:  item.ProductID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
			Size:       item.Size,
			Color:      item.Color,
		})
	}
	return order
}

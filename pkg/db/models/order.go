package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightloom/storefront-backend/pkg/enums"
)

// Order is the durable record reconciled from provider webhook events.
// Rows are never deleted; only the status transitions after creation.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SessionID       string            `gorm:"column:session_id;not null;uniqueIndex" json:"sessionId"`
	PaymentIntentID string            `gorm:"column:payment_intent_id;index" json:"paymentIntentId"`
	CustomerEmail   string            `gorm:"column:customer_email" json:"customerEmail"`
	TotalCents      int64             `gorm:"column:total_cents;not null" json:"totalCents"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	FulfilledAt     *time.Time        `gorm:"column:fulfilled_at" json:"fulfilledAt,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

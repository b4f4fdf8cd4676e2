package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem captures the snapshot of each line item within an order.
// Rows are immutable once written.
type OrderItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index" json:"orderId"`
	ProductID  string    `gorm:"column:product_id;not null" json:"productId"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	Quantity   int       `gorm:"column:quantity;not null" json:"quantity"`
	PriceCents int64     `gorm:"column:price_cents;not null" json:"priceCents"`
	Size       *string   `gorm:"column:size" json:"size,omitempty"`
	Color      *string   `gorm:"column:color" json:"color,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

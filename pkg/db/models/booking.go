package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightloom/storefront-backend/pkg/enums"
)

// Booking stores event/booking intake submissions. Status is only mutated by
// the admin confirm/cancel flow.
type Booking struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string              `gorm:"column:name;not null" json:"name"`
	Email        string              `gorm:"column:email;not null" json:"email"`
	Phone        *string             `gorm:"column:phone" json:"phone,omitempty"`
	Organization *string             `gorm:"column:organization" json:"organization,omitempty"`
	BookingType  string              `gorm:"column:booking_type;not null" json:"bookingType"`
	EventDate    string              `gorm:"column:event_date;not null" json:"eventDate"`
	EventTime    string              `gorm:"column:event_time;not null" json:"eventTime"`
	Duration     *string             `gorm:"column:duration" json:"duration,omitempty"`
	LocationType *string             `gorm:"column:location_type" json:"locationType,omitempty"`
	VenueAddress *string             `gorm:"column:venue_address" json:"venueAddress,omitempty"`
	Budget       *string             `gorm:"column:budget" json:"budget,omitempty"`
	Notes        *string             `gorm:"column:notes" json:"notes,omitempty"`
	Status       enums.BookingStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

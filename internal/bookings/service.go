package bookings

import (
	"context"

	"github.com/brightloom/storefront-backend/internal/notifier"
	"github.com/brightloom/storefront-backend/pkg/db/models"
	"github.com/brightloom/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/brightloom/storefront-backend/pkg/mailer"
	"github.com/brightloom/storefront-backend/pkg/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SubmitInput is the public booking request form.
type SubmitInput struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Email        string  `json:"email" validate:"required,email"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Organization *string `json:"organization,omitempty" validate:"omitempty,max=200"`
	BookingType  string  `json:"bookingType" validate:"required,max=100"`
	EventDate    string  `json:"eventDate" validate:"required,max=40"`
	EventTime    string  `json:"eventTime" validate:"required,max=40"`
	Duration     *string `json:"duration,omitempty" validate:"omitempty,max=100"`
	LocationType *string `json:"locationType,omitempty" validate:"omitempty,max=100"`
	VenueAddress *string `json:"venueAddress,omitempty" validate:"omitempty,max=500"`
	Budget       *string `json:"budget,omitempty" validate:"omitempty,max=100"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ListInput carries admin listing filters.
type ListInput struct {
	Status string
	Limit  int
	Cursor string
}

// ListOutput is one page of bookings plus the next cursor.
type ListOutput struct {
	Bookings   []models.Booking `json:"bookings"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

type mailEnqueuer interface {
	Enqueue(ctx context.Context, msg mailer.Message)
}

// Service handles booking intake and the admin status flow.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Booking, error)
	List(ctx context.Context, input ListInput) (*ListOutput, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Booking, error)
}

type service struct {
	repo     Repository
	notify   mailEnqueuer
	notifyTo string
	validate *validator.Validate
	logg     *logger.Logger
}

// NewService wires booking intake. Notify may be nil when email is disabled.
func NewService(repo Repository, notify mailEnqueuer, notifyTo string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bookings: repository is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bookings: logger is required")
	}
	return &service{
		repo:     repo,
		notify:   notify,
		notifyTo: notifyTo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logg:     logg,
	}, nil
}

// Submit validates and stores a booking request as pending, then sends a
// best-effort notification to the studio inbox.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Booking, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking payload")
	}

	booking := &models.Booking{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Organization: input.Organization,
		BookingType:  input.BookingType,
		EventDate:    input.EventDate,
		EventTime:    input.EventTime,
		Duration:     input.Duration,
		LocationType: input.LocationType,
		VenueAddress: input.VenueAddress,
		Budget:       input.Budget,
		Notes:        input.Notes,
		Status:       enums.BookingStatusPending,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to store booking")
	}

	if s.notify != nil && s.notifyTo != "" {
		s.notify.Enqueue(ctx, notifier.BookingReceived(s.notifyTo, booking))
	}
	return booking, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	query := ListQuery{Limit: input.Limit}
	if input.Status != "" {
		status, err := enums.ParseBookingStatus(input.Status)
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list bookings")
	}

	out := &ListOutput{Bookings: rows}
	if next != nil {
		out.NextCursor = pagination.EncodeCursor(*next)
	}
	return out, nil
}

// UpdateStatus applies the admin confirm/cancel action.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Booking, error) {
	parsed, err := enums.ParseBookingStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking status")
	}

	affected, err := s.repo.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update booking")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load booking")
	}
	return booking, nil
}

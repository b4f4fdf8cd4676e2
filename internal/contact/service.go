package contact

import (
	"context"

	"github.com/brightloom/storefront-backend/internal/notifier"
	"github.com/brightloom/storefront-backend/pkg/db/models"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/brightloom/storefront-backend/pkg/mailer"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SubmitInput is the public contact form payload.
type SubmitInput struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   string  `json:"email" validate:"required,email"`
	Subject *string `json:"subject,omitempty" validate:"omitempty,max=200"`
	Message string  `json:"message" validate:"required,min=2,max=5000"`
}

type mailEnqueuer interface {
	Enqueue(ctx context.Context, msg mailer.Message)
}

// Service stores contact messages and forwards them to the studio inbox.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.ContactMessage, error)
}

type service struct {
	repo     Repository
	notify   mailEnqueuer
	notifyTo string
	validate *validator.Validate
	logg     *logger.Logger
}

// NewService wires contact intake. Notify may be nil when email is disabled.
func NewService(repo Repository, notify mailEnqueuer, notifyTo string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "contact: repository is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "contact: logger is required")
	}
	return &service{
		repo:     repo,
		notify:   notify,
		notifyTo: notifyTo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logg:     logg,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.ContactMessage, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contact payload")
	}

	msg := &models.ContactMessage{
		ID:      uuid.New(),
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to store contact message")
	}

	if s.notify != nil && s.notifyTo != "" {
		s.notify.Enqueue(ctx, notifier.ContactReceived(s.notifyTo, msg))
	}
	return msg, nil
}

package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/brightloom/storefront-backend/internal/notifier"
	"github.com/brightloom/storefront-backend/internal/orders"
	"github.com/brightloom/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/brightloom/storefront-backend/pkg/mailer"
	"github.com/brightloom/storefront-backend/pkg/metrics"
	"github.com/stripe/stripe-go/v84"
)

type eventGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type mailEnqueuer interface {
	Enqueue(ctx context.Context, msg mailer.Message)
}

// ServiceParams collects webhook service dependencies. Notifier may be nil
// when email is disabled.
type ServiceParams struct {
	Orders   orders.Service
	Guard    eventGuard
	Notifier mailEnqueuer
	Metrics  *metrics.WebhookMetrics
	Logger   *logger.Logger
}

// Service turns verified provider events into order-state transitions. Every
// event is acknowledged to the provider; failures here surface only through
// logs and the webhook counters.
type Service struct {
	orders  orders.Service
	guard   eventGuard
	notify  mailEnqueuer
	metrics *metrics.WebhookMetrics
	logg    *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webhook: orders service required")
	}
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webhook: idempotency guard required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webhook: logger required")
	}
	return &Service{
		orders:  params.Orders,
		guard:   params.Guard,
		notify:  params.Notifier,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// Process deduplicates and dispatches one verified event. The returned error
// is for observability only; callers still acknowledge the provider.
func (s *Service) Process(ctx context.Context, event *stripe.Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event required")
	}

	ctx = s.logg.WithEventID(ctx, event.ID)
	ctx = s.logg.WithEventType(ctx, string(event.Type))

	duplicate, err := s.guard.CheckAndMark(ctx, event.ID)
	if err != nil {
		// Redis being down must not drop the event; the session id unique
		// constraint still prevents a double insert.
		s.logg.Warn(ctx, "idempotency check failed, processing anyway")
	}
	if duplicate {
		s.metrics.IncDuplicate(string(event.Type))
		s.logg.Info(ctx, "duplicate event skipped")
		return nil
	}

	if err := s.handle(ctx, event); err != nil {
		s.metrics.IncFailed(string(event.Type))
		if delErr := s.guard.Delete(ctx, event.ID); delErr != nil {
			s.logg.Warn(ctx, "failed to unmark event after handler error")
		}
		return err
	}

	s.metrics.IncProcessed(string(event.Type))
	return nil
}

func (s *Service) handle(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		return s.handleSessionCompleted(ctx, event)
	case stripe.EventTypePaymentIntentSucceeded:
		return s.markByIntent(ctx, event, enums.OrderStatusCompleted)
	case stripe.EventTypePaymentIntentPaymentFailed:
		return s.markByIntent(ctx, event, enums.OrderStatusFailed)
	case stripe.EventTypeChargeRefunded:
		return s.handleChargeRefunded(ctx, event)
	case stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:
		s.logg.Info(ctx, "subscription lifecycle event received, no transition applied")
		return nil
	default:
		s.logg.Info(ctx, "unhandled event type ignored")
		return nil
	}
}

func (s *Service) handleSessionCompleted(ctx context.Context, event *stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
	}
	if sess.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout session id missing")
	}

	input := orders.CreateInput{
		SessionID:     sess.ID,
		CustomerEmail: sessionEmail(&sess),
		TotalCents:    sess.AmountTotal,
		Status:        enums.OrderStatusCompleted,
	}
	if sess.PaymentIntent != nil {
		input.PaymentIntentID = sess.PaymentIntent.ID
	}

	order, created, err := s.orders.Record(ctx, input)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if s.notify != nil && order.CustomerEmail != "" {
		s.notify.Enqueue(ctx, notifier.OrderConfirmation(order))
	}
	return nil
}

func (s *Service) markByIntent(ctx context.Context, event *stripe.Event, status enums.OrderStatus) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
	}
	if intent.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent id missing")
	}
	return s.orders.MarkByPaymentIntent(ctx, intent.ID, status)
}

func (s *Service) handleChargeRefunded(ctx context.Context, event *stripe.Event) error {
	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode charge event")
	}
	if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
		s.logg.Warn(ctx, "refunded charge carries no payment intent, skipping")
		return nil
	}
	return s.orders.MarkByPaymentIntent(ctx, charge.PaymentIntent.ID, enums.OrderStatusRefunded)
}

func sessionEmail(sess *stripe.CheckoutSession) string {
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		return sess.CustomerDetails.Email
	}
	return sess.CustomerEmail
}

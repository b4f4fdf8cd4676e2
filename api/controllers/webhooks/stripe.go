package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/brightloom/storefront-backend/api/responses"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
)

type StripeWebhookService interface {
	Process(ctx context.Context, event *stripe.Event) error
}

type stripeClient interface {
	SigningSecret() string
}

type stripeAck struct {
	Received  bool   `json:"received"`
	EventType string `json:"eventType"`
}

// StripeWebhook verifies the event signature and hands the event to the
// reconciliation service. Handler failures are logged and acknowledged with
// 200 anyway so Stripe does not retry events we already recorded; only a
// bad signature gets an error status.
func StripeWebhook(svc StripeWebhookService, client stripeClient, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if client == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stripe client unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		sigHeader := r.Header.Get("Stripe-Signature")
		if sigHeader == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "stripe signature missing"))
			return
		}

		event, err := webhook.ConstructEvent(payload, sigHeader, client.SigningSecret())
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stripe signature"))
			return
		}

		if err := svc.Process(ctx, &event); err != nil && logg != nil {
			logg.Error(ctx, "stripe event processing failed", err)
		}

		responses.WriteSuccess(w, stripeAck{Received: true, EventType: string(event.Type)})
	}
}

package checkout

import (
	"context"
	"strings"

	"github.com/brightloom/storefront-backend/pkg/config"
	"github.com/brightloom/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/stripe/stripe-go/v84"
)

const defaultCurrency = "usd"

// Service starts hosted checkout sessions with the payment provider.
type Service interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*CreateSessionOutput, error)
}

type service struct {
	client   StripeSessionClient
	cfg      config.CheckoutConfig
	origin   string
	validate *validator.Validate
	logg     *logger.Logger
}

// NewService wires the checkout session initiator.
func NewService(client StripeSessionClient, cfg config.CheckoutConfig, frontendOrigin string, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "checkout: stripe client is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "checkout: logger is required")
	}
	if cfg.SuccessURL == "" || cfg.CancelURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "checkout: success and cancel urls are required")
	}
	return &service{
		client:   client,
		cfg:      cfg,
		origin:   strings.TrimRight(frontendOrigin, "/"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logg:     logg,
	}, nil
}

// CreateSession builds provider line items from the submitted cart and asks
// the provider for a hosted session. The caller's cart is untouched; order
// rows are written only by the webhook path.
func (s *service) CreateSession(ctx context.Context, input CreateSessionInput) (*CreateSessionOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout payload")
	}

	mode := enums.CheckoutModePayment
	if input.Mode != "" {
		parsed, err := enums.ParseCheckoutMode(input.Mode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout mode")
		}
		mode = parsed
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(mode)),
		SuccessURL: stripe.String(s.resolveRedirect(input.SuccessURL, s.cfg.SuccessURL)),
		CancelURL:  stripe.String(s.resolveRedirect(input.CancelURL, s.cfg.CancelURL)),
		LineItems:  buildLineItems(input.Items),
	}
	if input.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(input.CustomerEmail)
	}

	sess, err := s.client.CreateSession(ctx, params)
	if err != nil {
		s.logg.Error(ctx, "checkout session creation failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment provider rejected session")
	}

	lctx := s.logg.WithField(ctx, "session_id", sess.ID)
	s.logg.Info(lctx, "checkout session created")

	return &CreateSessionOutput{
		URL:       sess.URL,
		SessionID: sess.ID,
	}, nil
}

// resolveRedirect keeps redirects on the storefront origin. Anything else
// falls back to the configured default.
func (s *service) resolveRedirect(requested, fallback string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" || s.origin == "" {
		return fallback
	}
	if strings.HasPrefix(requested, s.origin+"/") || requested == s.origin {
		return requested
	}
	return fallback
}

func buildLineItems(items []LineItemInput) []*stripe.CheckoutSessionLineItemParams {
	out := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:     stripe.String(item.Name),
			Metadata: map[string]string{"product_id": item.ProductID},
		}
		if desc := variantDescription(item.Size, item.Color); desc != "" {
			product.Description = stripe.String(desc)
			if item.Size != nil {
				product.Metadata["size"] = *item.Size
			}
			if item.Color != nil {
				product.Metadata["color"] = *item.Color
			}
		}
		out = append(out, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(defaultCurrency),
				UnitAmount:  stripe.Int64(item.PriceCents),
				ProductData: product,
			},
		})
	}
	return out
}

func variantDescription(size, color *string) string {
	parts := []string{}
	if size != nil && *size != "" {
		parts = append(parts, "Size "+*size)
	}
	if color != nil && *color != "" {
		parts = append(parts, "Color "+*color)
	}
	return strings.Join(parts, " / ")
}

package checkout

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/brightloom/storefront-backend/pkg/config"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
)

type fakeStripeClient struct {
	params *stripe.CheckoutSessionParams
	resp   *stripe.CheckoutSession
	err    error
}

func (f *fakeStripeClient) CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		SuccessURL: "https://shop.example.com/success",
		CancelURL:  "https://shop.example.com/cart",
	}
}

func newTestService(t *testing.T, client *fakeStripeClient) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: &bytes.Buffer{}})
	svc, err := NewService(client, testCheckoutConfig(), "https://shop.example.com", logg)
	require.NoError(t, err)
	return svc
}

func validInput() CreateSessionInput {
	return CreateSessionInput{
		Items: []LineItemInput{
			{ProductID: "prod_a", Name: "Candle", PriceCents: 959, Quantity: 2},
		},
		CustomerEmail: "shopper@example.com",
	}
}

func TestCreateSession_buildsProviderParams(t *testing.T) {
	client := &fakeStripeClient{
		resp: &stripe.CheckoutSession{ID: "cs_123", URL: "https://pay.example.com/cs_123"},
	}
	svc := newTestService(t, client)

	size := "M"
	input := validInput()
	input.Items = append(input.Items, LineItemInput{
		ProductID: "prod_b", Name: "Tee", PriceCents: 2500, Quantity: 1, Size: &size,
	})

	out, err := svc.CreateSession(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "cs_123", out.SessionID)
	assert.Equal(t, "https://pay.example.com/cs_123", out.URL)

	require.NotNil(t, client.params)
	assert.Equal(t, "payment", *client.params.Mode)
	assert.Equal(t, "https://shop.example.com/success", *client.params.SuccessURL)
	assert.Equal(t, "shopper@example.com", *client.params.CustomerEmail)
	require.Len(t, client.params.LineItems, 2)

	first := client.params.LineItems[0]
	assert.Equal(t, int64(2), *first.Quantity)
	assert.Equal(t, int64(959), *first.PriceData.UnitAmount)
	assert.Equal(t, "usd", *first.PriceData.Currency)
	assert.Equal(t, "prod_a", first.PriceData.ProductData.Metadata["product_id"])

	second := client.params.LineItems[1]
	assert.Equal(t, "Size M", *second.PriceData.ProductData.Description)
	assert.Equal(t, "M", second.PriceData.ProductData.Metadata["size"])
}

func TestCreateSession_redirectOverrides(t *testing.T) {
	client := &fakeStripeClient{resp: &stripe.CheckoutSession{ID: "cs_1", URL: "u"}}
	svc := newTestService(t, client)

	input := validInput()
	input.SuccessURL = "https://shop.example.com/thanks"
	input.CancelURL = "https://evil.example.net/phish"

	_, err := svc.CreateSession(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/thanks", *client.params.SuccessURL)
	assert.Equal(t, "https://shop.example.com/cart", *client.params.CancelURL)
}

func TestCreateSession_validation(t *testing.T) {
	svc := newTestService(t, &fakeStripeClient{})

	_, err := svc.CreateSession(context.Background(), CreateSessionInput{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	input := validInput()
	input.Items[0].Quantity = 0
	_, err = svc.CreateSession(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	input = validInput()
	input.Mode = "donation"
	_, err = svc.CreateSession(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateSession_subscriptionMode(t *testing.T) {
	client := &fakeStripeClient{resp: &stripe.CheckoutSession{ID: "cs_sub", URL: "u"}}
	svc := newTestService(t, client)

	input := validInput()
	input.Mode = "subscription"
	_, err := svc.CreateSession(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "subscription", *client.params.Mode)
}

func TestCreateSession_providerFailure(t *testing.T) {
	client := &fakeStripeClient{err: errors.New("rate limited")}
	svc := newTestService(t, client)

	_, err := svc.CreateSession(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

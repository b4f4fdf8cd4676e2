package stripewebhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/brightloom/storefront-backend/internal/orders"
	"github.com/brightloom/storefront-backend/pkg/db/models"
	"github.com/brightloom/storefront-backend/pkg/enums"
	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/brightloom/storefront-backend/pkg/mailer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
)

type stubOrders struct {
	recordInput  *orders.CreateInput
	recordErr    error
	recorded     *models.Order
	createdFlag  bool
	markedIntent string
	markedStatus enums.OrderStatus
	markErr      error
}

func (s *stubOrders) Record(ctx context.Context, input orders.CreateInput) (*models.Order, bool, error) {
	s.recordInput = &input
	if s.recordErr != nil {
		return nil, false, s.recordErr
	}
	if s.recorded == nil {
		s.recorded = &models.Order{
			ID:            uuid.New(),
			SessionID:     input.SessionID,
			CustomerEmail: input.CustomerEmail,
			TotalCents:    input.TotalCents,
			Status:        input.Status,
		}
		s.createdFlag = true
	}
	return s.recorded, s.createdFlag, nil
}

func (s *stubOrders) MarkByPaymentIntent(ctx context.Context, paymentIntentID string, status enums.OrderStatus) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.markedIntent = paymentIntentID
	s.markedStatus = status
	return nil
}

func (s *stubOrders) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrders) List(ctx context.Context, input orders.ListInput) (*orders.ListOutput, error) {
	return nil, errors.New("not implemented")
}

type stubGuard struct {
	duplicate bool
	checkErr  error
	deleted   []string
}

func (s *stubGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	return s.duplicate, s.checkErr
}

func (s *stubGuard) Delete(ctx context.Context, eventID string) error {
	s.deleted = append(s.deleted, eventID)
	return nil
}

type stubEnqueuer struct {
	sent []mailer.Message
}

func (s *stubEnqueuer) Enqueue(ctx context.Context, msg mailer.Message) {
	s.sent = append(s.sent, msg)
}

func newWebhookService(t *testing.T, ord *stubOrders, guard *stubGuard, mail *stubEnqueuer) *Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "webhook-test", Output: &bytes.Buffer{}})
	svc, err := NewService(ServiceParams{
		Orders:   ord,
		Guard:    guard,
		Notifier: mail,
		Logger:   logg,
	})
	require.NoError(t, err)
	return svc
}

func sessionCompletedEvent(t *testing.T, sessionID, intentID, email string, total int64) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":             sessionID,
		"payment_intent": intentID,
		"amount_total":   total,
		"customer_details": map[string]any{
			"email": email,
		},
	})
	require.NoError(t, err)
	return &stripe.Event{
		ID:   "evt_" + sessionID,
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestProcess_sessionCompletedCreatesOrderAndEmails(t *testing.T) {
	ord := &stubOrders{}
	mail := &stubEnqueuer{}
	svc := newWebhookService(t, ord, &stubGuard{}, mail)

	event := sessionCompletedEvent(t, "cs_123", "pi_9", "a@b.com", 5000)
	require.NoError(t, svc.Process(context.Background(), event))

	require.NotNil(t, ord.recordInput)
	assert.Equal(t, "cs_123", ord.recordInput.SessionID)
	assert.Equal(t, "pi_9", ord.recordInput.PaymentIntentID)
	assert.Equal(t, "a@b.com", ord.recordInput.CustomerEmail)
	assert.Equal(t, int64(5000), ord.recordInput.TotalCents)
	assert.Equal(t, enums.OrderStatusCompleted, ord.recordInput.Status)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"a@b.com"}, mail.sent[0].To)
}

func TestProcess_replayedSessionSkipsEmail(t *testing.T) {
	ord := &stubOrders{
		recorded:    &models.Order{ID: uuid.New(), SessionID: "cs_123"},
		createdFlag: false,
	}
	mail := &stubEnqueuer{}
	svc := newWebhookService(t, ord, &stubGuard{}, mail)

	event := sessionCompletedEvent(t, "cs_123", "pi_9", "a@b.com", 5000)
	require.NoError(t, svc.Process(context.Background(), event))
	assert.Empty(t, mail.sent)
}

func TestProcess_duplicateEventIsSkipped(t *testing.T) {
	ord := &stubOrders{}
	svc := newWebhookService(t, ord, &stubGuard{duplicate: true}, &stubEnqueuer{})

	event := sessionCompletedEvent(t, "cs_dup", "pi_1", "a@b.com", 100)
	require.NoError(t, svc.Process(context.Background(), event))
	assert.Nil(t, ord.recordInput)
}

func TestProcess_guardFailureStillProcesses(t *testing.T) {
	ord := &stubOrders{}
	svc := newWebhookService(t, ord, &stubGuard{checkErr: errors.New("redis down")}, &stubEnqueuer{})

	event := sessionCompletedEvent(t, "cs_ok", "pi_1", "a@b.com", 100)
	require.NoError(t, svc.Process(context.Background(), event))
	assert.NotNil(t, ord.recordInput)
}

func TestProcess_paymentIntentTransitions(t *testing.T) {
	tests := []struct {
		name      string
		eventType stripe.EventType
		status    enums.OrderStatus
	}{
		{"succeeded", stripe.EventTypePaymentIntentSucceeded, enums.OrderStatusCompleted},
		{"failed", stripe.EventTypePaymentIntentPaymentFailed, enums.OrderStatusFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ord := &stubOrders{}
			svc := newWebhookService(t, ord, &stubGuard{}, &stubEnqueuer{})

			raw, err := json.Marshal(map[string]any{"id": "pi_42"})
			require.NoError(t, err)
			event := &stripe.Event{
				ID:   "evt_pi",
				Type: tc.eventType,
				Data: &stripe.EventData{Raw: raw},
			}
			require.NoError(t, svc.Process(context.Background(), event))
			assert.Equal(t, "pi_42", ord.markedIntent)
			assert.Equal(t, tc.status, ord.markedStatus)
		})
	}
}

func TestProcess_chargeRefunded(t *testing.T) {
	ord := &stubOrders{}
	svc := newWebhookService(t, ord, &stubGuard{}, &stubEnqueuer{})

	raw, err := json.Marshal(map[string]any{"id": "ch_1", "payment_intent": "pi_ref"})
	require.NoError(t, err)
	event := &stripe.Event{
		ID:   "evt_refund",
		Type: stripe.EventTypeChargeRefunded,
		Data: &stripe.EventData{Raw: raw},
	}
	require.NoError(t, svc.Process(context.Background(), event))
	assert.Equal(t, "pi_ref", ord.markedIntent)
	assert.Equal(t, enums.OrderStatusRefunded, ord.markedStatus)
}

func TestProcess_handlerErrorUnmarksEvent(t *testing.T) {
	ord := &stubOrders{recordErr: errors.New("db write failed")}
	guard := &stubGuard{}
	svc := newWebhookService(t, ord, guard, &stubEnqueuer{})

	event := sessionCompletedEvent(t, "cs_err", "pi_1", "a@b.com", 100)
	err := svc.Process(context.Background(), event)
	require.Error(t, err)
	assert.Equal(t, []string{"evt_cs_err"}, guard.deleted)
}

func TestProcess_subscriptionAndUnknownEventsAreLoggedOnly(t *testing.T) {
	for _, eventType := range []stripe.EventType{
		stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventType("product.created"),
	} {
		ord := &stubOrders{}
		svc := newWebhookService(t, ord, &stubGuard{}, &stubEnqueuer{})
		event := &stripe.Event{ID: "evt_x", Type: eventType, Data: &stripe.EventData{Raw: []byte("{}")}}
		require.NoError(t, svc.Process(context.Background(), event))
		assert.Nil(t, ord.recordInput)
		assert.Empty(t, ord.markedIntent)
	}
}

package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records outcomes of provider webhook event handling. Handler
// failures are acknowledged to the provider, so these counters are the only
// signal that an event was dropped.
type WebhookMetrics struct {
	processed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	duplicate *prometheus.CounterVec
	emailSent prometheus.Counter
	emailFail prometheus.Counter
}

// NewWebhookMetrics registers the webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_processed_total",
		Help: "Webhook events handled successfully.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_failed_total",
		Help: "Webhook events acknowledged but not applied.",
	}, []string{"event_type"})
	duplicate := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_duplicate_total",
		Help: "Webhook events skipped as already processed.",
	}, []string{"event_type"})
	emailSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_emails_sent_total",
		Help: "Best-effort notification emails delivered.",
	})
	emailFail := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_emails_failed_total",
		Help: "Best-effort notification emails that failed to send.",
	})
	reg.MustRegister(processed, failed, duplicate, emailSent, emailFail)
	return &WebhookMetrics{
		processed: processed,
		failed:    failed,
		duplicate: duplicate,
		emailSent: emailSent,
		emailFail: emailFail,
	}
}

// IncProcessed increments the processed counter for the event type.
func (m *WebhookMetrics) IncProcessed(eventType string) {
	if m == nil || m.processed == nil {
		return
	}
	m.processed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed increments the failed counter for the event type.
func (m *WebhookMetrics) IncFailed(eventType string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncDuplicate increments the duplicate counter for the event type.
func (m *WebhookMetrics) IncDuplicate(eventType string) {
	if m == nil || m.duplicate == nil {
		return
	}
	m.duplicate.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncEmailSent records a delivered notification email.
func (m *WebhookMetrics) IncEmailSent() {
	if m == nil || m.emailSent == nil {
		return
	}
	m.emailSent.Inc()
}

// IncEmailFailed records a notification email that could not be sent.
func (m *WebhookMetrics) IncEmailFailed() {
	if m == nil || m.emailFail == nil {
		return
	}
	m.emailFail.Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}

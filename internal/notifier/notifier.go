package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/brightloom/storefront-backend/pkg/mailer"
	"github.com/brightloom/storefront-backend/pkg/metrics"
)

const (
	defaultQueueSize = 64
	sendTimeout      = 15 * time.Second
)

// Notifier delivers best-effort email off the request path. Enqueue never
// blocks and never returns an error; a failed or dropped send is recorded on
// the metrics counters and logged, nothing more.
type Notifier struct {
	mail    mailer.Mailer
	logg    *logger.Logger
	metrics *metrics.WebhookMetrics

	queue chan mailer.Message
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New starts the notifier's delivery worker.
func New(mail mailer.Mailer, logg *logger.Logger, m *metrics.WebhookMetrics, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	n := &Notifier{
		mail:    mail,
		logg:    logg,
		metrics: m,
		queue:   make(chan mailer.Message, queueSize),
	}
	n.wg.Add(1)
	go n.run()
	return n
}

// Enqueue hands a message to the delivery worker. When the queue is full or
// the notifier is already closed the message is dropped and counted as a
// failed send.
func (n *Notifier) Enqueue(ctx context.Context, msg mailer.Message) {
	// The mutex must cover the send itself, or Close can close the channel
	// between the closed check and the send.
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		n.metrics.IncEmailFailed()
		n.logg.Warn(ctx, "notifier closed, dropping email")
		return
	}

	select {
	case n.queue <- msg:
	default:
		n.metrics.IncEmailFailed()
		lctx := n.logg.WithField(ctx, "subject", msg.Subject)
		n.logg.Warn(lctx, "notifier queue full, dropping email")
	}
}

// Close stops accepting messages and waits for queued sends to finish.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()
	n.wg.Wait()
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for msg := range n.queue {
		n.deliver(msg)
	}
}

func (n *Notifier) deliver(msg mailer.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := n.mail.Send(ctx, msg); err != nil {
		n.metrics.IncEmailFailed()
		lctx := n.logg.WithField(ctx, "subject", msg.Subject)
		n.logg.Error(lctx, "notification email failed", err)
		return
	}
	n.metrics.IncEmailSent()
}

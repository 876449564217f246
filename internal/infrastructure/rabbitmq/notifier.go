// Package rabbitmq publishes notification email jobs to the worker queue.
package rabbitmq

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-social/pkg/mailer"
)

// Publisher is satisfied by helpers.RabbitPublisher
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type Notifier struct {
	pub     Publisher
	timeout time.Duration
}

func NewNotifier(pub Publisher) *Notifier {
	return &Notifier{pub: pub, timeout: 3 * time.Second}
}

func (n *Notifier) Notify(ctx context.Context, job mailer.EmailJob) error {
	c, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	return n.pub.PublishJSON(c, job)
}

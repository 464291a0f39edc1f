// Package jobs defines the background jobs dispatched by the services.
// Jobs are registered by name at boot (see RegisterAll) so the queue can
// deserialize them from any driver.
package jobs

import (
	"fmt"

	"github.com/velocart/velocart/config"
	"github.com/velocart/velocart/pkg/logger"
	"github.com/velocart/velocart/pkg/mail"
	"github.com/velocart/velocart/pkg/queue"
)

// RegisterAll registers every job type with the queue. Call once at boot.
func RegisterAll() {
	queue.Register("*jobs.OrderPlacedJob", func() queue.Job { return &OrderPlacedJob{} })
	queue.Register("*jobs.OrderStatusJob", func() queue.Job { return &OrderStatusJob{} })
}

// mailConfigured reports whether SMTP credentials are present. Without
// them notification jobs succeed as no-ops instead of burning retries.
func mailConfigured() bool {
	return config.Get("MAIL_USERNAME", "") != ""
}

// OrderPlacedJob emails the buyer an order confirmation.
type OrderPlacedJob struct {
	OrderID uint   `json:"order_id"`
	Email   string `json:"email"`
	Total   int64  `json:"total"`
}

func (j *OrderPlacedJob) Handle() error {
	if !mailConfigured() {
		logger.Debug("jobs: mail not configured, skipping order confirmation", "order_id", j.OrderID)
		return nil
	}

	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order #%d confirmed", j.OrderID)).
		Body(fmt.Sprintf("<p>Thanks for your order! We received your payment of %d.</p>", j.Total)).
		Send()
}

// OrderStatusJob emails the buyer when their order changes status.
type OrderStatusJob struct {
	OrderID uint   `json:"order_id"`
	Email   string `json:"email"`
	Status  string `json:"status"`
}

func (j *OrderStatusJob) Handle() error {
	if !mailConfigured() {
		logger.Debug("jobs: mail not configured, skipping status notification", "order_id", j.OrderID)
		return nil
	}

	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order #%d is now %s", j.OrderID, j.Status)).
		Body(fmt.Sprintf("<p>Your order #%d has been updated to <strong>%s</strong>.</p>", j.OrderID, j.Status)).
		Send()
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

// CRMClient pushes converted leads into the external sales pipeline.
type CRMClient interface {
	CreateLead(ctx context.Context, event entity.LeadEvent) (int, error)
}

// Worker consumes status changes and syncs conversions to the CRM.
type Worker struct {
	Channel *amqp.Channel
	CRM     CRMClient
	Logger  *slog.Logger
}

func NewWorker(ch *amqp.Channel, crm CRMClient, logger *slog.Logger) *Worker {
	return &Worker{
		Channel: ch,
		CRM:     crm,
		Logger:  logger,
	}
}

// Start blocks until ctx is cancelled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer on %s: %w", queueName, err)
	}

	w.Logger.Info("crm sync worker started", "queue", queueName)
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("crm sync worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", queueName)
			}
			w.Handle(ctx, d)
		}
	}
}

// Handle settles exactly one delivery. Malformed payloads are dead-lettered at once; a
// failed CRM call is retried once through a requeue and then dead-lettered.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) {
	var event entity.LeadEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Logger.Error("malformed lead event", "error", err, "message_id", d.MessageId)
		_ = d.Nack(false, false)
		return
	}

	if !event.IsConversion() {
		_ = d.Ack(false)
		return
	}

	crmID, err := w.CRM.CreateLead(ctx, event)
	if err != nil {
		requeue := !d.Redelivered
		w.Logger.Error("crm sync failed",
			"error", err,
			"lead_id", event.LeadID,
			"requeue", requeue,
		)
		_ = d.Nack(false, requeue)
		return
	}

	w.Logger.Info("lead synced to crm", "lead_id", event.LeadID, "crm_lead_id", crmID)
	_ = d.Ack(false)
}

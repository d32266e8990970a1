package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

const (
	ExchangeName = "ex.leads"
	DLXName      = "ex.leads.dlx"
	CRMSyncQueue = "q.lead_crm_sync"
	CRMSyncDLQ   = "q.lead_crm_sync.dlq"
)

// Routing keys are the event types, so consumers bind to exactly what they handle.
var (
	RegisteredKey    = string(entity.EventLeadRegistered)
	StatusChangedKey = string(entity.EventLeadStatusChanged)
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := SetupTopology(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

func (r *RabbitMQ) Close() error {
	if err := r.Ch.Close(); err != nil {
		_ = r.Conn.Close()
		return err
	}
	return r.Conn.Close()
}

// Declarer is the subset of *amqp.Channel needed to declare the topology.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// SetupTopology declares the lead exchange, the CRM sync queue and its dead letter pair.
// Rejected CRM messages land in CRMSyncDLQ.
func SetupTopology(ch Declarer) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(CRMSyncDLQ, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(CRMSyncDLQ, StatusChangedKey, DLXName, false, nil); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": StatusChangedKey,
	}
	if _, err := ch.QueueDeclare(CRMSyncQueue, true, false, false, false, args); err != nil {
		return err
	}
	return ch.QueueBind(CRMSyncQueue, StatusChangedKey, ExchangeName, false, nil)
}

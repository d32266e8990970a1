package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	published []published
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, published{exchange, key, msg})
	return nil
}

type ackRecorder struct {
	acked    int
	nacked   int
	requeued bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked++; return nil }

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeued = requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked++
	a.requeued = requeue
	return nil
}

type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) CreateLead(ctx context.Context, event entity.LeadEvent) (int, error) {
	args := m.Called(ctx, event)
	return args.Int(0), args.Error(1)
}

func conversionEvent() entity.LeadEvent {
	lead := entity.Lead{
		ID:          1,
		CompanyName: "Test Company",
		ContactName: "John Doe",
		Phone:       "0821234567",
		Email:       "john@example.com",
		Province:    "Gauteng",
		City:        "Johannesburg",
		Status:      entity.StatusConverted,
		Commission:  decimal.RequireFromString("1000.50"),
	}
	return entity.NewLeadEvent(entity.EventLeadStatusChanged, lead, entity.StatusQualified, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
}

func delivery(t *testing.T, ack *ackRecorder, event any, redelivered bool) amqp.Delivery {
	t.Helper()

	var body []byte
	switch v := event.(type) {
	case []byte:
		body = v
	default:
		var err error
		body, err = json.Marshal(v)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, Body: body, Redelivered: redelivered}
}

func newTestWorker(crm CRMClient) *Worker {
	return NewWorker(nil, crm, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProducer_PublishLeadEvent(t *testing.T) {
	ch := &fakeChannel{}
	event := conversionEvent()

	require.NoError(t, NewProducer(ch).PublishLeadEvent(context.Background(), event))
	require.Len(t, ch.published, 1)

	p := ch.published[0]
	assert.Equal(t, ExchangeName, p.exchange)
	assert.Equal(t, StatusChangedKey, p.key)
	assert.Equal(t, event.EventID, p.msg.MessageId)
	assert.Equal(t, amqp.Persistent, p.msg.DeliveryMode)

	var decoded entity.LeadEvent
	require.NoError(t, json.Unmarshal(p.msg.Body, &decoded))
	assert.Equal(t, event.LeadID, decoded.LeadID)
	assert.Equal(t, entity.StatusConverted, decoded.Status)
	assert.Equal(t, "1000.5", decoded.Commission.String())
	assert.Contains(t, string(p.msg.Body), `"commission":"1000.5"`)
}

func TestProducer_PublishFailure(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}

	err := NewProducer(ch).PublishLeadEvent(context.Background(), conversionEvent())
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestWorker_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("conversion is synced and acked", func(t *testing.T) {
		crm := new(MockCRM)
		crm.On("CreateLead", ctx, mock.MatchedBy(func(e entity.LeadEvent) bool { return e.LeadID == 1 })).Return(42, nil)
		ack := &ackRecorder{}

		newTestWorker(crm).Handle(ctx, delivery(t, ack, conversionEvent(), false))

		assert.Equal(t, 1, ack.acked)
		assert.Zero(t, ack.nacked)
		crm.AssertExpectations(t)
	})

	t.Run("non conversion is acked without crm call", func(t *testing.T) {
		crm := new(MockCRM)
		ack := &ackRecorder{}
		event := conversionEvent()
		event.Status = entity.StatusContacted

		newTestWorker(crm).Handle(ctx, delivery(t, ack, event, false))

		assert.Equal(t, 1, ack.acked)
		crm.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
	})

	t.Run("malformed body is dead-lettered", func(t *testing.T) {
		crm := new(MockCRM)
		ack := &ackRecorder{}

		newTestWorker(crm).Handle(ctx, delivery(t, ack, []byte("{not json"), false))

		assert.Equal(t, 1, ack.nacked)
		assert.False(t, ack.requeued)
	})

	t.Run("crm failure is requeued once", func(t *testing.T) {
		crm := new(MockCRM)
		crm.On("CreateLead", ctx, mock.Anything).Return(0, errors.New("kommo down"))

		first := &ackRecorder{}
		newTestWorker(crm).Handle(ctx, delivery(t, first, conversionEvent(), false))
		assert.True(t, first.requeued)

		second := &ackRecorder{}
		newTestWorker(crm).Handle(ctx, delivery(t, second, conversionEvent(), true))
		assert.Equal(t, 1, second.nacked)
		assert.False(t, second.requeued)
	})
}

type fakeDeclarer struct {
	exchanges []string
	queues    map[string]amqp.Table
	bindings  []string
}

func (f *fakeDeclarer) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp.Table) error {
	f.exchanges = append(f.exchanges, name+":"+kind)
	return nil
}

func (f *fakeDeclarer) QueueDeclare(name string, _, _, _, _ bool, args amqp.Table) (amqp.Queue, error) {
	if f.queues == nil {
		f.queues = map[string]amqp.Table{}
	}
	f.queues[name] = args
	return amqp.Queue{Name: name}, nil
}

func (f *fakeDeclarer) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	f.bindings = append(f.bindings, exchange+"->"+name+"@"+key)
	return nil
}

func TestSetupTopology(t *testing.T) {
	d := &fakeDeclarer{}
	require.NoError(t, SetupTopology(d))

	assert.ElementsMatch(t, []string{DLXName + ":direct", ExchangeName + ":topic"}, d.exchanges)
	assert.Equal(t, DLXName, d.queues[CRMSyncQueue]["x-dead-letter-exchange"])
	assert.Contains(t, d.bindings, ExchangeName+"->"+CRMSyncQueue+"@"+StatusChangedKey)
	assert.Contains(t, d.bindings, DLXName+"->"+CRMSyncDLQ+"@"+StatusChangedKey)
}

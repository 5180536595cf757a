package mq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bazarly/catalog-backend/internal/adapters/repository"
)

type recordingAcknowledger struct {
	acked    bool
	nacked   bool
	rejected bool
	requeue  bool
}

func (a *recordingAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *recordingAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	a.rejected = true
	a.requeue = requeue
	return nil
}

type stubStockRepo struct {
	repository.ProductRepository
	err   error
	calls int
}

func (s *stubStockRepo) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	s.calls++
	return s.err
}

func deliver(t *testing.T, consumer *StockConsumer, body string) *recordingAcknowledger {
	t.Helper()
	ack := &recordingAcknowledger{}
	consumer.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte(body)})
	return ack
}

func TestHandleAcksAppliedEvent(t *testing.T) {
	repo := &stubStockRepo{}
	consumer := &StockConsumer{products: repo}

	ack := deliver(t, consumer, `{"productId":"`+primitive.NewObjectID().Hex()+`","quantity":2}`)

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.False(t, ack.rejected)
	assert.Equal(t, 1, repo.calls)
}

func TestHandleRejectsUnsatisfiableEvent(t *testing.T) {
	id := primitive.NewObjectID()
	repo := &stubStockRepo{err: repository.ErrInsufficientStock}
	consumer := &StockConsumer{products: repo}

	ack := deliver(t, consumer, `{"productId":"`+id.Hex()+`","quantity":99}`)

	// Insufficient stock cannot resolve on redelivery, so the event must be
	// dropped rather than bounced between broker and store forever.
	assert.True(t, ack.rejected)
	assert.False(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleRequeuesOnStoreFailure(t *testing.T) {
	repo := &stubStockRepo{err: errors.New("connection reset")}
	consumer := &StockConsumer{products: repo}

	ack := deliver(t, consumer, `{"productId":"`+primitive.NewObjectID().Hex()+`","quantity":1}`)

	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)
	assert.False(t, ack.rejected)
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	repo := &stubStockRepo{}
	consumer := &StockConsumer{products: repo}

	ack := deliver(t, consumer, `{not json`)

	assert.True(t, ack.rejected)
	assert.False(t, ack.requeue)
	assert.Equal(t, 0, repo.calls)
}

func TestHandleRejectsInvalidEvent(t *testing.T) {
	repo := &stubStockRepo{}
	consumer := &StockConsumer{products: repo}

	badID := deliver(t, consumer, `{"productId":"not-a-hex-id","quantity":1}`)
	assert.True(t, badID.rejected)

	badQty := deliver(t, consumer, `{"productId":"`+primitive.NewObjectID().Hex()+`","quantity":0}`)
	assert.True(t, badQty.rejected)

	assert.Equal(t, 0, repo.calls)
}

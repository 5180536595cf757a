package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bazarly/catalog-backend/internal/adapters/repository"
)

const stockQueue = "orders.placed"

// StockEvent is one placed-order line: decrement this product's stock by the
// ordered quantity.
type StockEvent struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// StockConsumer applies order events to product stock counters.
type StockConsumer struct {
	conn     *amqp.Connection
	products repository.ProductRepository
}

func NewStockConsumer(url string, products repository.ProductRepository) (*StockConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return &StockConsumer{conn: conn, products: products}, nil
}

// Run consumes until the context is cancelled. Malformed or unsatisfiable
// events are rejected; only store failures requeue the message.
func (c *StockConsumer) Run(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(stockQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	consumerTag := "catalog-stock-" + uuid.NewString()
	deliveries, err := ch.Consume(stockQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	logrus.WithField("queue", stockQueue).Info("stock consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.handle(ctx, delivery)
		}
	}
}

func (c *StockConsumer) handle(ctx context.Context, delivery amqp.Delivery) {
	var event StockEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		logrus.WithError(err).Warn("rejecting malformed stock event")
		_ = delivery.Reject(false)
		return
	}

	productID, err := primitive.ObjectIDFromHex(event.ProductID)
	if err != nil || event.Quantity <= 0 {
		logrus.WithField("productId", event.ProductID).Warn("rejecting invalid stock event")
		_ = delivery.Reject(false)
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := c.products.DecrementStock(opCtx, productID, event.Quantity); err != nil {
		// A refused decrement can never succeed on redelivery.
		if errors.Is(err, repository.ErrInsufficientStock) {
			logrus.WithField("productId", event.ProductID).Warn("rejecting unsatisfiable stock event")
			_ = delivery.Reject(false)
			return
		}
		logrus.WithError(err).WithField("productId", event.ProductID).Error("stock decrement failed, requeueing")
		_ = delivery.Nack(false, true)
		return
	}

	_ = delivery.Ack(false)
}

func (c *StockConsumer) Close() error {
	return c.conn.Close()
}

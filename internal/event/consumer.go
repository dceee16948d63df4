package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"matchos/internal/models"
	"matchos/internal/repository"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ReputationUpdater applies scores computed by the reputation subsystem.
type ReputationUpdater interface {
	ApplyReputation(ctx context.Context, userID string, score float64) error
}

type Consumer interface {
	Start() error
	Close() error
}

var errMalformed = errors.New("malformed event")

type ExchangeConfig struct {
	Name       string
	Type       string
	Durable    bool
	AutoDelete bool
	Internal   bool
	NoWait     bool
	Args       amqp091.Table
}

type BindingConfig struct {
	Exchange   string
	RoutingKey string
}

var (
	consumedExchanges = []ExchangeConfig{
		{Name: "reputation.events", Type: "topic", Durable: true},
	}
	consumedBindings = []BindingConfig{
		{Exchange: "reputation.events", RoutingKey: "reputation.#"},
	}
)

type EventConsumer struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	queueName  string
	reputation ReputationUpdater
	shutdown   chan struct{}
	wg         sync.WaitGroup
	enabled    bool
	logger     *zap.Logger
}

func NewEventConsumer(rabbitURI, queueName string, reputation ReputationUpdater, logger *zap.Logger) (*EventConsumer, error) {
	if rabbitURI == "" {
		logger.Warn("RabbitMQ URI is empty, event consumption is disabled")
		return &EventConsumer{
			reputation: reputation,
			shutdown:   make(chan struct{}),
			enabled:    false,
			logger:     logger,
		}, nil
	}

	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &EventConsumer{
		conn:       conn,
		channel:    channel,
		queueName:  queueName,
		reputation: reputation,
		shutdown:   make(chan struct{}),
		enabled:    true,
		logger:     logger,
	}, nil
}

func (c *EventConsumer) Start() error {
	if !c.enabled {
		c.logger.Info("event consumption is disabled, not starting consumer")
		return nil
	}

	for _, exchange := range consumedExchanges {
		err := c.channel.ExchangeDeclare(
			exchange.Name,
			exchange.Type,
			exchange.Durable,
			exchange.AutoDelete,
			exchange.Internal,
			exchange.NoWait,
			exchange.Args,
		)
		if err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", exchange.Name, err)
		}
	}

	_, err := c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, binding := range consumedBindings {
		if err := c.channel.QueueBind(c.queueName, binding.RoutingKey, binding.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue to exchange %s with key %s: %w",
				binding.Exchange, binding.RoutingKey, err)
		}
		c.logger.Info("bound queue",
			zap.String("queue", c.queueName),
			zap.String("exchange", binding.Exchange),
			zap.String("routing_key", binding.RoutingKey))
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consume(msgs)
	}()

	c.logger.Info("event consumer started")
	return nil
}

func (c *EventConsumer) consume(msgs <-chan amqp091.Delivery) {
	for {
		select {
		case <-c.shutdown:
			c.logger.Info("stopping event consumer")
			return
		case msg, ok := <-msgs:
			if !ok {
				c.logger.Warn("message channel closed")
				return
			}

			err := c.processMessage(msg.RoutingKey, msg.Body)
			if err == nil {
				if err := msg.Ack(false); err != nil {
					c.logger.Error("error ACKing message", zap.Error(err))
				}
				continue
			}

			if isPermanent(err) {
				c.logger.Warn("dropping message",
					zap.String("routing_key", msg.RoutingKey),
					zap.Error(err))
				if err := msg.Ack(false); err != nil {
					c.logger.Error("error ACKing message", zap.Error(err))
				}
				continue
			}

			c.logger.Error("error processing message, requeueing",
				zap.String("routing_key", msg.RoutingKey),
				zap.Error(err))
			if err := msg.Nack(false, true); err != nil {
				c.logger.Error("error NACKing message", zap.Error(err))
			}
		}
	}
}

func isPermanent(err error) bool {
	return errors.Is(err, errMalformed) || errors.Is(err, repository.ErrNotFound)
}

func (c *EventConsumer) processMessage(routingKey string, body []byte) error {
	switch models.EventType(routingKey) {
	case models.EventTypeReputationUpdated:
		return c.handleReputationUpdated(body)
	default:
		c.logger.Debug("ignoring event", zap.String("routing_key", routingKey))
		return nil
	}
}

func (c *EventConsumer) handleReputationUpdated(body []byte) error {
	var event models.ReputationUpdatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if event.UserID == "" {
		return fmt.Errorf("%w: missing userId", errMalformed)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.reputation.ApplyReputation(ctx, event.UserID, event.Score); err != nil {
		return fmt.Errorf("failed to apply reputation for user %s: %w", event.UserID, err)
	}

	c.logger.Info("reputation updated", zap.String("user_id", event.UserID), zap.Float64("score", event.Score))
	return nil
}

func (c *EventConsumer) Close() error {
	if !c.enabled {
		return nil
	}

	close(c.shutdown)
	c.wg.Wait()

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing RabbitMQ channel", zap.Error(err))
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}

	return nil
}

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const defaultExchange = "gamification.events"

type Publisher interface {
	PublishSuggestion(ctx context.Context, event SuggestionEvent) error
	Close() error
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher publica eventos en un exchange topic de RabbitMQ.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  amqpChannel
	exchange string
	enabled  bool
	logger   *zap.Logger
}

// NewAMQPPublisher conecta con RabbitMQ; con uri vacia devuelve un publisher deshabilitado.
func NewAMQPPublisher(uri string, logger *zap.Logger) (*AMQPPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if uri == "" {
		logger.Warn("rabbitmq uri is empty, event publishing disabled")
		return &AMQPPublisher{exchange: defaultExchange, logger: logger}, nil
	}

	conn, err := amqp091.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := channel.ExchangeDeclare(
		defaultExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	logger.Info("event publisher initialized", zap.String("exchange", defaultExchange))
	return &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: defaultExchange,
		enabled:  true,
		logger:   logger,
	}, nil
}

func (p *AMQPPublisher) PublishSuggestion(ctx context.Context, event SuggestionEvent) error {
	if p == nil || !p.enabled {
		return nil
	}
	if event.EventType == "" {
		event.EventType = EventSuggestionComputed
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		string(event.EventType),
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
			Headers: amqp091.Table{
				"event_type": string(event.EventType),
				"user_id":    event.UserID,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("event_type", string(event.EventType)),
		zap.String("user_id", event.UserID),
	)
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p == nil || !p.enabled {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("close rabbitmq channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}

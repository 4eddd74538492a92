// Package queue publishes delivery outcome events to RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/franzego/maybunga-notifications/internal/config"
	"github.com/franzego/maybunga-notifications/internal/models"
)

const (
	RoutingDelivered = "notification.delivered"
	RoutingFailed    = "notification.failed"
	RoutingSkipped   = "notification.skipped"
)

// EventPublisher is what handlers need from the event bus.
type EventPublisher interface {
	PublishDeliveryEvent(ctx context.Context, event models.DeliveryEvent) error
	IsConnected() bool
}

type RabbitMqClient struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Config  config.RabbitMQConfig
}

func NewRabbitMqService(cfg config.RabbitMQConfig) (*RabbitMqClient, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("there was an error connecting to rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("could not create a channel: %w", err)
	}
	return &RabbitMqClient{
		Conn:    conn,
		Channel: channel,
		Config:  cfg,
	}, nil
}

func (r *RabbitMqClient) CloseConnection() {
	_ = r.Channel.Close()
	_ = r.Conn.Close()
}

func (r *RabbitMqClient) IsConnected() bool {
	return r.Conn != nil && !r.Conn.IsClosed()
}

// SetUpExchangeAndQueue declares the topic exchange and a durable queue bound
// to every notification routing key.
func (r *RabbitMqClient) SetUpExchangeAndQueue() error {
	if err := r.Channel.ExchangeDeclare(
		r.Config.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("error in declaring exchange: %w", err)
	}
	if r.Config.EventQueue == "" {
		return nil
	}
	if _, err := r.Channel.QueueDeclare(
		r.Config.EventQueue,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("error declaring queue: %w", err)
	}
	if err := r.Channel.QueueBind(
		r.Config.EventQueue,
		"notification.#",
		r.Config.Exchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", r.Config.EventQueue, err)
	}
	return nil
}

func (r *RabbitMqClient) Publish(ctx context.Context, routingKey string, message interface{}) error {
	by, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	err = r.Channel.PublishWithContext(
		ctx,
		r.Config.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         by,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			MessageId:    messageID(message),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (r *RabbitMqClient) PublishDeliveryEvent(ctx context.Context, event models.DeliveryEvent) error {
	return r.Publish(ctx, RoutingKey(event), event)
}

// RoutingKey picks the topic for an event from its outcome.
func RoutingKey(event models.DeliveryEvent) string {
	switch {
	case event.Success:
		return RoutingDelivered
	case event.Skipped:
		return RoutingSkipped
	default:
		return RoutingFailed
	}
}

// NewDeliveryEvent describes a send outcome for the bus.
func NewDeliveryEvent(result models.DeliveryResult, correlationID string) models.DeliveryEvent {
	return models.DeliveryEvent{
		ID:            uuid.New().String(),
		MessageID:     result.MessageID,
		Success:       result.Success,
		Skipped:       result.Skipped,
		Method:        result.Method,
		Provider:      result.Provider,
		PatientID:     result.PatientID,
		Type:          result.Type,
		UsedFallback:  result.UsedFallback,
		Error:         result.Error,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

// IsValidURL reports whether url looks like a real broker address rather than
// an unset or placeholder value.
func IsValidURL(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}
	lower := strings.ToLower(url)
	for _, indicator := range []string{"mock", "example", "fake", "changeme"} {
		if strings.Contains(lower, indicator) {
			return false
		}
	}
	return strings.HasPrefix(lower, "amqp://") || strings.HasPrefix(lower, "amqps://")
}

// NoopPublisher drops events when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishDeliveryEvent(context.Context, models.DeliveryEvent) error { return nil }

func (NoopPublisher) IsConnected() bool { return false }

func messageID(message interface{}) string {
	if ev, ok := message.(models.DeliveryEvent); ok {
		return ev.ID
	}
	return ""
}

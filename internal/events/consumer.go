package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

// ContactoNotifier is told about every new contact message.
type ContactoNotifier interface {
	NotifyContacto(ctx context.Context, contacto *models.Contacto) error
}

// KafkaConsumer consumes contact events and forwards them to a notifier.
type KafkaConsumer struct {
	reader   *kafka.Reader
	notifier ContactoNotifier
	logger   *logging.Logger
	stopCh   chan struct{}
}

// NewKafkaConsumer creates a new Kafka-based event consumer.
func NewKafkaConsumer(cfg config.KafkaConfig, notifier ContactoNotifier) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.ContactosTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		notifier: notifier,
		logger:   logging.NewLogger("event-consumer"),
		stopCh:   make(chan struct{}),
	}
}

// Start consumes events until ctx is done or Stop is called.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting Kafka consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Kafka consumer stopped")
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				select {
				case <-c.stopCh:
					c.logger.Info("Kafka consumer stopped")
					return nil
				default:
				}
				c.logger.Error("Failed to read message", logging.Fields{"error": err.Error()})
				continue
			}

			c.handleMessage(ctx, msg)
		}
	}
}

// Stop stops the consumer.
func (c *KafkaConsumer) Stop() {
	close(c.stopCh)
	c.reader.Close()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	c.logger.Debug("Received message", logging.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to unmarshal event", logging.Fields{"error": err.Error()})
		return
	}

	switch event.Type {
	case EventTypeContactoCreado:
		c.handleContactoCreado(ctx, &event)
	default:
		c.logger.Debug("Ignoring unknown event type", logging.Fields{"type": event.Type})
	}
}

func (c *KafkaConsumer) handleContactoCreado(ctx context.Context, event *Event) {
	var contacto models.Contacto
	if err := json.Unmarshal(event.Data, &contacto); err != nil {
		c.logger.Error("Invalid contacto payload", logging.Fields{
			"event_id": event.ID,
			"error":    err.Error(),
		})
		return
	}

	c.logger.Info("Handling contacto creado event", logging.Fields{
		"event_id":    event.ID,
		"contacto_id": contacto.ID,
	})

	if err := c.notifier.NotifyContacto(ctx, &contacto); err != nil {
		c.logger.Error("Failed to notify contacto", logging.Fields{
			"contacto_id": contacto.ID,
			"error":       err.Error(),
		})
	}
}

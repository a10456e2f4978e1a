package events

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/middleware"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

// EventType represents the type of a domain event.
type EventType string

const (
	EventTypeContactoCreado EventType = "contacto.creado"
	EventTypeFacturaSubida  EventType = "factura.subida"
)

// Event is the envelope of every message written to Kafka.
type Event struct {
	ID            string            `json:"id"`
	Type          EventType         `json:"type"`
	EntityID      string            `json:"entity_id"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata"`
	Timestamp     time.Time         `json:"timestamp"`
	CorrelationID string            `json:"correlation_id,omitempty"`
}

// KafkaPublisher publishes domain events to Kafka.
type KafkaPublisher struct {
	writer         *kafka.Writer
	contactosTopic string
	facturasTopic  string
	logger         *logging.Logger
}

// NewKafkaPublisher creates a new Kafka-based event publisher. The topic is
// chosen per message.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer:         writer,
		contactosTopic: cfg.ContactosTopic,
		facturasTopic:  cfg.FacturasTopic,
		logger:         logging.NewLogger("event-publisher"),
	}
}

// PublishContactoCreado publishes a contacto.creado event.
func (p *KafkaPublisher) PublishContactoCreado(ctx context.Context, contacto *models.Contacto) error {
	data, err := json.Marshal(contacto)
	if err != nil {
		return err
	}

	event := newEvent(ctx, EventTypeContactoCreado, strconv.FormatInt(contacto.ID, 10), data)
	return p.publish(ctx, p.contactosTopic, event)
}

// PublishFacturaSubida publishes a factura.subida event.
func (p *KafkaPublisher) PublishFacturaSubida(ctx context.Context, factura *models.Factura) error {
	data, err := json.Marshal(factura)
	if err != nil {
		return err
	}

	event := newEvent(ctx, EventTypeFacturaSubida, strconv.FormatInt(factura.ID, 10), data)
	event.Metadata["content_type"] = factura.ContentType
	return p.publish(ctx, p.facturasTopic, event)
}

func newEvent(ctx context.Context, eventType EventType, entityID string, data []byte) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		EntityID:      entityID,
		Data:          data,
		Metadata:      make(map[string]string),
		Timestamp:     time.Now().UTC(),
		CorrelationID: middleware.RequestIDFromContext(ctx),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, topic string, event *Event) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(event.EntityID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event", logging.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
			"entity_id":  event.EntityID,
			"error":      err.Error(),
		})
		return err
	}

	p.logger.Info("Event published", logging.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"entity_id":  event.EntityID,
		"topic":      topic,
	})

	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}

// NoopPublisher drops every event. Used when FEATURE_EVENTS is off.
type NoopPublisher struct{}

func (NoopPublisher) PublishContactoCreado(context.Context, *models.Contacto) error { return nil }
func (NoopPublisher) PublishFacturaSubida(context.Context, *models.Factura) error  { return nil }
func (NoopPublisher) Close() error                                                 { return nil }

// MockEventPublisher records events in memory for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	Err    error
	Events []*Event
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]*Event, 0),
	}
}

func (m *MockEventPublisher) PublishContactoCreado(ctx context.Context, contacto *models.Contacto) error {
	return m.record(ctx, EventTypeContactoCreado, contacto.ID)
}

func (m *MockEventPublisher) PublishFacturaSubida(ctx context.Context, factura *models.Factura) error {
	return m.record(ctx, EventTypeFacturaSubida, factura.ID)
}

func (m *MockEventPublisher) record(ctx context.Context, eventType EventType, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, newEvent(ctx, eventType, strconv.FormatInt(id, 10), nil))
	return nil
}

// Types returns the types of the recorded events in order.
func (m *MockEventPublisher) Types() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]EventType, 0, len(m.Events))
	for _, e := range m.Events {
		out = append(out, e.Type)
	}
	return out
}

func (m *MockEventPublisher) Close() error { return nil }

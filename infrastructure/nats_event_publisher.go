package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"guildledger/events"
	"guildledger/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DomainEventStream is the JetStream stream holding every ledger event
const DomainEventStream = "ledger_events"

// EventEnvelope wraps every event published to NATS
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// messagePublisher is the subset of NATSClient the event publisher needs
type messagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	ensureStream(streamName string, subjects []string) error
}

// NATSEventPublisher publishes ledger events to NATS and to in-process handlers
type NATSEventPublisher struct {
	client        messagePublisher
	subjectMapper *EventSubjectMapper
	mu            sync.RWMutex
	localHandlers map[events.EventType][]events.Handler
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(natsClient *NATSClient, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return newNATSEventPublisher(natsClient, subjectMapper)
}

func newNATSEventPublisher(client messagePublisher, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return &NATSEventPublisher{
		client:        client,
		subjectMapper: subjectMapper,
		localHandlers: make(map[events.EventType][]events.Handler),
	}
}

// Publish runs local handlers for the event, then publishes it to NATS
func (p *NATSEventPublisher) Publish(event events.Event) error {
	ctx := context.Background()
	eventType := event.Type()

	p.mu.RLock()
	handlers := p.localHandlers[eventType]
	p.mu.RUnlock()

	for _, handler := range handlers {
		p.invokeLocal(ctx, handler, event)
	}

	subject := p.subjectMapper.MapEventToSubject(event)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(eventType),
		Timestamp:     time.Now().UTC(),
		SourceService: "guildledger",
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.client.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}
	observability.GetMetrics().RecordNATSMessagePublished(string(eventType))

	log.WithFields(log.Fields{
		"eventType": eventType,
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

func (p *NATSEventPublisher) invokeLocal(ctx context.Context, handler events.Handler, event events.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"panic":     r,
			}).Error("Local event handler panicked")
		}
	}()
	handler(ctx, event)
}

// RegisterLocalHandler registers a handler invoked in-process for every published event of the type
func (p *NATSEventPublisher) RegisterLocalHandler(eventType events.EventType, handler events.Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.localHandlers[eventType] = append(p.localHandlers[eventType], handler)
	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(p.localHandlers[eventType]),
	}).Info("Registered local event handler")
}

// EnsureDomainEventStream ensures the ledger event stream exists with the correct subjects
func (p *NATSEventPublisher) EnsureDomainEventStream() error {
	return p.client.ensureStream(DomainEventStream, p.subjectMapper.GetAllSubjects())
}

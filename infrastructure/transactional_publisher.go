package infrastructure

import (
	"context"
	"sync"

	"guildledger/domain/interfaces"
	"guildledger/events"

	log "github.com/sirupsen/logrus"
)

// TransactionalPublisher holds events until the owning transaction commits
type TransactionalPublisher struct {
	realPublisher interfaces.EventPublisher
	mu            sync.Mutex
	pending       []events.Event
}

// NewTransactionalPublisher creates a new transactional publisher
func NewTransactionalPublisher(realPublisher interfaces.EventPublisher) *TransactionalPublisher {
	return &TransactionalPublisher{
		realPublisher: realPublisher,
		pending:       make([]events.Event, 0),
	}
}

// Publish queues the event without publishing it
func (p *TransactionalPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"pendingCount": len(p.pending),
	}).Debug("Queued event until commit")

	p.pending = append(p.pending, event)
	return nil
}

// Flush publishes every queued event in order. Failures are logged and skipped.
func (p *TransactionalPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	pending := p.pending
	p.pending = make([]events.Event, 0)
	p.mu.Unlock()

	for _, event := range pending {
		if err := p.realPublisher.Publish(event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to publish event during flush")
		}
	}

	log.WithField("flushedEventCount", len(pending)).Debug("Flushed pending events")
	return nil
}

// Discard drops every queued event
func (p *TransactionalPublisher) Discard() {
	p.mu.Lock()
	defer p.mu.Unlock()

	log.WithField("discardedEventCount", len(p.pending)).Debug("Discarding pending events")
	p.pending = make([]events.Event, 0)
}

// PendingCount returns the number of queued events
func (p *TransactionalPublisher) PendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

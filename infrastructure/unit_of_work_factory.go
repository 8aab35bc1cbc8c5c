package infrastructure

import (
	"guildledger/application"
	"guildledger/database"
	"guildledger/domain/interfaces"
	"guildledger/events"
	"guildledger/repository"

	log "github.com/sirupsen/logrus"
)

// UnitOfWorkFactory creates units of work that pair a database transaction
// with a transactional event publisher
type UnitOfWorkFactory struct {
	repoFactory interface {
		CreateForGuild(guildID int64) application.UnitOfWork
	}
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler subscribes an in-process handler to committed events
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler events.Handler) {
	switch publisher := f.eventPublisher.(type) {
	case *NATSEventPublisher:
		publisher.RegisterLocalHandler(eventType, handler)
	case *events.Bus:
		publisher.Subscribe(eventType, handler)
	default:
		log.WithField("eventType", eventType).Warn("Event publisher does not support local handlers")
	}
}

// CreateForGuild creates a new UnitOfWork with its own transactional publisher
func (f *UnitOfWorkFactory) CreateForGuild(guildID int64) application.UnitOfWork {
	return &unitOfWork{
		inner:                  f.repoFactory.CreateForGuild(guildID),
		transactionalPublisher: NewTransactionalPublisher(f.eventPublisher),
	}
}

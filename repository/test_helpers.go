package repository

import (
	"guildledger/application"
	"guildledger/database"
	"guildledger/domain/interfaces"
)

// CreateTestUnitOfWork creates a unit of work for testing with the provided transactional publisher
func CreateTestUnitOfWork(db *database.DB, guildID int64, transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return NewUnitOfWorkFactory(db).CreateForGuildWithPublisher(guildID, transactionalPublisher)
}

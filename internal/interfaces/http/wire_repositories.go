package http

import (
	"gorm.io/gorm"

	"harvestcycle/internal/domain/replacement"
	"harvestcycle/internal/infrastructure/repository"
	"harvestcycle/internal/shared/db"
	"harvestcycle/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	replacementRepo replacement.Repository
	txManager       *db.TransactionManager
}

func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		replacementRepo: repository.NewReplacementRequestRepository(gdb, log),
		txManager:       db.NewTransactionManager(gdb),
	}
}

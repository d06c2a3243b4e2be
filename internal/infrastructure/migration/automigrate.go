package migration

import (
	"harvestcycle/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models managed by GormAutoMigrateStrategy.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ReplacementRequestModel{},
		&models.SubscriberLockModel{},
	}
}

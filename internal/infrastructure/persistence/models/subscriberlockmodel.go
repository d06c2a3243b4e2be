package models

import "harvestcycle/internal/shared/constants"

// SubscriberLockModel is one row per subscriber that has ever created a
// request. Create transactions lock it to serialize per subscriber across
// processes.
type SubscriberLockModel struct {
	SubscriberID string `gorm:"primaryKey;size:64"`
	LockedAt     int64  `gorm:"not null"`
}

func (SubscriberLockModel) TableName() string {
	return constants.TableSubscriberLocks
}

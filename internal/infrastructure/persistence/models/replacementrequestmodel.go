package models

import "harvestcycle/internal/shared/constants"

// ReplacementRequestModel is the row shape of a replacement request.
// Timestamps are Unix milliseconds in UTC. WeekStart is the start of the
// business-local calendar date, also in Unix milliseconds.
type ReplacementRequestModel struct {
	ID               string  `gorm:"primaryKey;size:40"`
	SubscriberID     string  `gorm:"size:64;not null;uniqueIndex:uk_replacement_subscriber_week,priority:1;index:idx_replacement_subscriber_created,priority:1"`
	WeekStart        int64   `gorm:"not null;uniqueIndex:uk_replacement_subscriber_week,priority:2"`
	Type             string  `gorm:"size:20;not null"`
	Reason           string  `gorm:"type:text"`
	Status           string  `gorm:"size:20;not null;index:idx_replacement_status"`
	AppliedToOrderID *string `gorm:"size:64"`
	AdminNotes       string  `gorm:"type:text"`
	Version          int     `gorm:"not null;default:1"`
	CreatedAt        int64   `gorm:"not null;index:idx_replacement_subscriber_created,priority:2"`
	UpdatedAt        int64   `gorm:"not null"`
}

func (ReplacementRequestModel) TableName() string {
	return constants.TableReplacementRequests
}

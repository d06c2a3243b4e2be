package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"harvestcycle/internal/domain/replacement"
	"harvestcycle/internal/infrastructure/persistence/mappers"
	"harvestcycle/internal/infrastructure/persistence/models"
	"harvestcycle/internal/shared/biztime"
	"harvestcycle/internal/shared/db"
	"harvestcycle/internal/shared/errors"
	"harvestcycle/internal/shared/logger"
)

// ReplacementRequestRepositoryImpl implements replacement.Repository on GORM.
type ReplacementRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mappers.ReplacementRequestMapper
	logger logger.Interface
}

// NewReplacementRequestRepository creates a new replacement request repository.
func NewReplacementRequestRepository(db *gorm.DB, logger logger.Interface) replacement.Repository {
	return &ReplacementRequestRepositoryImpl{
		db:     db,
		mapper: mappers.NewReplacementRequestMapper(),
		logger: logger,
	}
}

// LockSubscriber upserts the subscriber's lock row and reads it back FOR
// UPDATE. The upsert write alone holds the row (MySQL) or database (SQLite)
// lock until commit, so a second creator for the same subscriber waits here
// and then sees the first one's request.
func (r *ReplacementRequestRepositoryImpl) LockSubscriber(ctx context.Context, subscriberID string) error {
	txDB := db.GetTxFromContext(ctx, r.db)
	row := &models.SubscriberLockModel{
		SubscriberID: subscriberID,
		LockedAt:     biztime.NowUTC().UnixMilli(),
	}

	err := txDB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subscriber_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"locked_at"}),
	}).Create(row).Error
	if err != nil {
		r.logger.Errorw("failed to upsert subscriber lock", "subscriber_id", subscriberID, "error", err)
		return fmt.Errorf("failed to lock subscriber: %w", err)
	}

	var locked models.SubscriberLockModel
	if err := txDB.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("subscriber_id = ?", subscriberID).
		First(&locked).Error; err != nil {
		r.logger.Errorw("failed to lock subscriber row", "subscriber_id", subscriberID, "error", err)
		return fmt.Errorf("failed to lock subscriber: %w", err)
	}
	return nil
}

// Create inserts a request. The (subscriber_id, week_start) unique index
// turns a racing duplicate into ErrDuplicateWeekRequest.
func (r *ReplacementRequestRepositoryImpl) Create(ctx context.Context, request *replacement.ReplacementRequest) error {
	model := r.mapper.ToModel(request)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) || stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return replacement.ErrDuplicateWeekRequest
		}
		r.logger.Errorw("failed to create replacement request", "id", model.ID, "error", err)
		return fmt.Errorf("failed to create replacement request: %w", err)
	}

	r.logger.Debugw("replacement request created", "id", model.ID, "subscriber_id", model.SubscriberID)
	return nil
}

func (r *ReplacementRequestRepositoryImpl) GetByID(ctx context.Context, requestID string) (*replacement.ReplacementRequest, error) {
	var model models.ReplacementRequestModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", requestID).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, replacement.ErrNotFound
		}
		r.logger.Errorw("failed to get replacement request", "id", requestID, "error", err)
		return nil, fmt.Errorf("failed to get replacement request: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

// Update writes the mutable columns conditioned on the version the caller
// read. Zero affected rows means another writer got there first.
func (r *ReplacementRequestRepositoryImpl) Update(ctx context.Context, request *replacement.ReplacementRequest) error {
	model := r.mapper.ToModel(request)
	nextVersion := model.Version + 1

	result := db.GetTxFromContext(ctx, r.db).Model(&models.ReplacementRequestModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]any{
			"status":              model.Status,
			"applied_to_order_id": model.AppliedToOrderID,
			"admin_notes":         model.AdminNotes,
			"updated_at":          model.UpdatedAt,
			"version":             nextVersion,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update replacement request", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update replacement request: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.GetTxFromContext(ctx, r.db).Model(&models.ReplacementRequestModel{}).
			Where("id = ?", model.ID).Count(&count).Error; err == nil && count == 0 {
			return replacement.ErrNotFound
		}
		r.logger.Warnw("replacement request version conflict", "id", model.ID, "version", model.Version)
		return replacement.ErrConcurrentModification
	}

	request.SetVersion(nextVersion)
	return nil
}

func (r *ReplacementRequestRepositoryImpl) List(ctx context.Context, filter replacement.ListFilter) ([]*replacement.ReplacementRequest, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.ReplacementRequestModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.SubscriberID != nil {
		query = query.Where("subscriber_id = ?", *filter.SubscriberID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []*models.ReplacementRequestModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list replacement requests", "error", err)
		return nil, fmt.Errorf("failed to list replacement requests: %w", err)
	}

	return r.mapper.ToDomainList(rows)
}

func (r *ReplacementRequestRepositoryImpl) CountCreatedBetween(ctx context.Context, subscriberID string, start, end time.Time) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.ReplacementRequestModel{}).
		Where("subscriber_id = ? AND created_at >= ? AND created_at <= ?", subscriberID, start.UnixMilli(), end.UnixMilli()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count replacement requests: %w", err)
	}
	return count, nil
}

func (r *ReplacementRequestRepositoryImpl) ExistsWeekStartBetween(ctx context.Context, subscriberID string, from, to time.Time) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.ReplacementRequestModel{}).
		Where("subscriber_id = ? AND week_start >= ? AND week_start < ?", subscriberID, from.UnixMilli(), to.UnixMilli()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check replacement week: %w", err)
	}
	return count > 0, nil
}

func (r *ReplacementRequestRepositoryImpl) CountCreatedBetweenBySubscriber(ctx context.Context, subscriberIDs []string, start, end time.Time) (map[string]int64, error) {
	out := make(map[string]int64, len(subscriberIDs))
	if len(subscriberIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		SubscriberID string
		Total        int64
	}
	err := db.GetTxFromContext(ctx, r.db).Model(&models.ReplacementRequestModel{}).
		Select("subscriber_id, COUNT(*) AS total").
		Where("subscriber_id IN ? AND created_at >= ? AND created_at <= ?", subscriberIDs, start.UnixMilli(), end.UnixMilli()).
		Group("subscriber_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count replacement requests by subscriber: %w", err)
	}

	for _, row := range rows {
		out[row.SubscriberID] = row.Total
	}
	return out, nil
}

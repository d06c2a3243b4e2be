package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"harvestcycle/internal/domain/replacement"
	vo "harvestcycle/internal/domain/replacement/valueobjects"
	"harvestcycle/internal/infrastructure/persistence/models"
	"harvestcycle/internal/shared/db"
	"harvestcycle/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.ReplacementRequestModel{}, &models.SubscriberLockModel{}))
	return gdb
}

var (
	testLoc, _ = time.LoadLocation("America/Los_Angeles")
	testNow    = time.Date(2026, 10, 12, 17, 0, 0, 0, time.UTC)
)

func week(day int) time.Time {
	return time.Date(2026, 10, day, 0, 0, 0, 0, testLoc)
}

func newRequest(t *testing.T, subscriberID string, weekStart, now time.Time) *replacement.ReplacementRequest {
	t.Helper()
	r, err := replacement.NewReplacementRequest(subscriberID, weekStart, "wilted", now)
	require.NoError(t, err)
	return r
}

func TestReplacementRequestRepository_CreateAndGet(t *testing.T) {
	repo := NewReplacementRequestRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	r := newRequest(t, "sub_1", week(12), testNow)
	require.NoError(t, repo.Create(ctx, r))

	found, err := repo.GetByID(ctx, r.ID())
	require.NoError(t, err)
	assert.Equal(t, "sub_1", found.SubscriberID())
	assert.True(t, found.WeekStart().Equal(week(12)))
	assert.Equal(t, vo.StatusPending, found.Status())
	assert.Equal(t, "wilted", found.Reason())
	assert.True(t, found.CreatedAt().Equal(testNow))

	_, err = repo.GetByID(ctx, "fsr_missing")
	assert.ErrorIs(t, err, replacement.ErrNotFound)
}

func TestReplacementRequestRepository_UniqueWeek(t *testing.T) {
	repo := NewReplacementRequestRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRequest(t, "sub_1", week(12), testNow)))

	err := repo.Create(ctx, newRequest(t, "sub_1", week(12), testNow))
	assert.ErrorIs(t, err, replacement.ErrDuplicateWeekRequest)

	// Same week, other subscriber.
	assert.NoError(t, repo.Create(ctx, newRequest(t, "sub_2", week(12), testNow)))
}

func TestReplacementRequestRepository_ConcurrentCreateSameWeek(t *testing.T) {
	repo := NewReplacementRequestRepository(setupTestDB(t), logger.NewNop())

	const attempts = 8
	errs := make([]error, attempts)
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			errs[i] = repo.Create(context.Background(), newRequest(t, "sub_1", week(12), testNow))
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, replacement.ErrDuplicateWeekRequest)
	}
	assert.Equal(t, 1, succeeded)
}

func TestReplacementRequestRepository_OptimisticUpdate(t *testing.T) {
	repo := NewReplacementRequestRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	r := newRequest(t, "sub_1", week(12), testNow)
	require.NoError(t, repo.Create(ctx, r))

	first, err := repo.GetByID(ctx, r.ID())
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, r.ID())
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	require.NoError(t, first.ChangeStatus(vo.StatusApproved, later))
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, 2, first.Version())

	require.NoError(t, second.ChangeStatus(vo.StatusRejected, later))
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, replacement.ErrConcurrentModification)

	stored, err := repo.GetByID(ctx, r.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusApproved, stored.Status())
	assert.True(t, stored.UpdatedAt().Equal(later))

	_, err = stored.ApplyToOrder("ord_1", later)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, stored))

	applied, err := repo.GetByID(ctx, r.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusApplied, applied.Status())
	assert.Equal(t, "ord_1", *applied.AppliedToOrderID())
	assert.Equal(t, 3, applied.Version())
}

func TestReplacementRequestRepository_UpdateMissing(t *testing.T) {
	repo := NewReplacementRequestRepository(setupTestDB(t), logger.NewNop())
	err := repo.Update(context.Background(), newRequest(t, "sub_1", week(12), testNow))
	assert.ErrorIs(t, err, replacement.ErrNotFound)
}

func TestReplacementRequestRepository_ListAndCounts(t *testing.T) {
	repo := NewReplacementRequestRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	// sub_1: two in October, one in September. sub_2: one in October.
	oct1 := newRequest(t, "sub_1", week(5), time.Date(2026, 10, 2, 18, 0, 0, 0, time.UTC))
	oct2 := newRequest(t, "sub_1", week(12), time.Date(2026, 10, 12, 18, 0, 0, 0, time.UTC))
	sep := newRequest(t, "sub_1", time.Date(2026, 9, 21, 0, 0, 0, 0, testLoc), time.Date(2026, 9, 22, 18, 0, 0, 0, time.UTC))
	other := newRequest(t, "sub_2", week(12), time.Date(2026, 10, 13, 18, 0, 0, 0, time.UTC))
	for _, r := range []*replacement.ReplacementRequest{oct1, oct2, sep, other} {
		require.NoError(t, repo.Create(ctx, r))
	}
	require.NoError(t, oct2.ChangeStatus(vo.StatusApproved, testNow))
	require.NoError(t, repo.Update(ctx, oct2))

	all, err := repo.List(ctx, replacement.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, other.ID(), all[0].ID())
	assert.Equal(t, sep.ID(), all[3].ID())

	approved := vo.StatusApproved
	filtered, err := repo.List(ctx, replacement.ListFilter{Status: &approved})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, oct2.ID(), filtered[0].ID())

	sub := "sub_1"
	limited, err := repo.List(ctx, replacement.ListFilter{SubscriberID: &sub, Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, oct2.ID(), limited[0].ID())

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, testLoc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	n, err := repo.CountCreatedBetween(ctx, "sub_1", start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err := repo.CountCreatedBetweenBySubscriber(ctx, []string{"sub_1", "sub_2", "sub_3"}, start, end)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"sub_1": 2, "sub_2": 1}, counts)

	empty, err := repo.CountCreatedBetweenBySubscriber(ctx, nil, start, end)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReplacementRequestRepository_ExistsWeekStartBetween(t *testing.T) {
	repo := NewReplacementRequestRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newRequest(t, "sub_1", week(12), testNow)))

	tests := []struct {
		from, to time.Time
		want     bool
	}{
		{week(12), week(19), true},
		{week(6), week(13), true},
		{week(13), week(20), false},
		{week(5), week(12), false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s..%s", tt.from.Format("01-02"), tt.to.Format("01-02")), func(t *testing.T) {
			got, err := repo.ExistsWeekStartBetween(ctx, "sub_1", tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplacementRequestRepository_RollbackInTransaction(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewReplacementRequestRepository(gdb, logger.NewNop())
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, repo.Create(txCtx, newRequest(t, "sub_1", week(12), testNow)))
		n, err := repo.CountCreatedBetween(txCtx, "sub_1", testNow.Add(-time.Hour), testNow.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := repo.CountCreatedBetween(ctx, "sub_1", testNow.Add(-time.Hour), testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReplacementRequestRepository_LockSubscriber(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewReplacementRequestRepository(gdb, logger.NewNop())
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, tm.RunInTransaction(ctx, func(txCtx context.Context) error {
			return repo.LockSubscriber(txCtx, "sub_1")
		}))
	}
	require.NoError(t, tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		return repo.LockSubscriber(txCtx, "sub_2")
	}))

	var rows []models.SubscriberLockModel
	require.NoError(t, gdb.Order("subscriber_id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "sub_1", rows[0].SubscriberID)
	assert.Equal(t, "sub_2", rows[1].SubscriberID)
	assert.Positive(t, rows[0].LockedAt)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/repository"
)

func newDashboardService(t *testing.T, db *gorm.DB, cache *redis.Client) DashboardService {
	t.Helper()
	return NewDashboardService(
		repository.NewDashboardRepository(db),
		repository.NewBatchRepository(db),
		repository.NewStudentLogRepository(db),
		repository.NewFeeCollectionRepository(db),
		cache,
		time.Minute,
		testLogger(),
	)
}

func seedPaidCollection(t *testing.T, db *gorm.DB, studentID uint, amount float64) models.FeeCollection {
	t.Helper()
	collection := models.FeeCollection{
		StudentID:     studentID,
		AmountPaid:    amount,
		PaymentMethod: models.PaymentMethodCash,
		Status:        models.PaymentStatusPaid,
		PaymentDate:   time.Now(),
	}
	require.NoError(t, db.Create(&collection).Error)
	return collection
}

func TestDashboardSummaryDefaultsToLatestBatch(t *testing.T) {
	db := setupServiceDB(t)
	svc := newDashboardService(t, db, nil)

	older := seedBatch(t, db, "2024-2025", 2024)
	latest := seedBatch(t, db, "2025-2026", 2025)
	oldClass := seedClass(t, db, "Grade 5", older.ID)
	newClass := seedClass(t, db, "Grade 6", latest.ID)

	inOld := seedStudent(t, db, "ADM-501", "Asha", "Rao", &oldClass.ID)
	inNew := seedStudent(t, db, "ADM-502", "Rahul", "Mehta", &newClass.ID)
	seedStudent(t, db, "ADM-503", "Vikram", "Shah", nil)

	seedPaidCollection(t, db, inOld.ID, 400)
	seedPaidCollection(t, db, inNew.ID, 600)

	response, err := svc.GetSummary(context.Background(), nil)
	require.NoError(t, err)

	require.NotNil(t, response.SelectedBatch)
	require.Equal(t, latest.ID, response.SelectedBatch.ID)
	require.Len(t, response.Batches, 2)

	require.Equal(t, int64(3), response.Summary.TotalStudents)
	require.Equal(t, int64(2), response.Summary.TotalClasses)
	require.Equal(t, int64(1), response.Summary.ActiveClasses)
	require.Equal(t, float64(1000), response.Summary.TotalCollectedFees)
	require.Equal(t, int64(1), response.Summary.StudentsInBatch)
	require.Equal(t, float64(600), response.Summary.BatchCollectedFees)
}

func TestDashboardSummaryServesCachedSnapshot(t *testing.T) {
	db := setupServiceDB(t)

	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	svc := newDashboardService(t, db, cache)

	batch := seedBatch(t, db, "2025-2026", 2025)
	class := seedClass(t, db, "Grade 5", batch.ID)
	seedStudent(t, db, "ADM-511", "Asha", "Rao", &class.ID)

	first, err := svc.GetSummary(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Summary.TotalStudents)

	// New rows must not appear until the cache entry expires.
	seedStudent(t, db, "ADM-512", "Rahul", "Mehta", &class.ID)

	second, err := svc.GetSummary(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), second.Summary.TotalStudents)

	server.FastForward(2 * time.Minute)

	third, err := svc.GetSummary(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, int64(2), third.Summary.TotalStudents)
}

func TestActivityFeedFallsBackToSystemUser(t *testing.T) {
	db := setupServiceDB(t)
	svc := newDashboardService(t, db, nil)

	batch := seedBatch(t, db, "2025-2026", 2025)
	class := seedClass(t, db, "Grade 5", batch.ID)
	student := seedStudent(t, db, "ADM-521", "Asha", "Rao", &class.ID)

	log := models.StudentLog{
		StudentID: student.ID,
		Field:     models.LogFieldStudent,
		Action:    models.LogActionCreate,
		UserID:    999,
	}
	require.NoError(t, db.Create(&log).Error)

	feed, err := svc.GetActivities(context.Background(), 1, 10, nil)
	require.NoError(t, err)

	require.Len(t, feed.Activities, 1)
	require.Equal(t, "Asha Rao", feed.Activities[0].StudentName)
	require.Equal(t, "ADM-521", feed.Activities[0].StudentRoll)
	require.Equal(t, "System", feed.Activities[0].User)
	require.Equal(t, int64(1), feed.Pagination.TotalCount)
	require.Equal(t, 1, feed.Pagination.TotalPages)
	require.False(t, feed.Pagination.HasNextPage)
}

func TestPaymentFeedPaginates(t *testing.T) {
	db := setupServiceDB(t)
	svc := newDashboardService(t, db, nil)

	batch := seedBatch(t, db, "2025-2026", 2025)
	class := seedClass(t, db, "Grade 5", batch.ID)
	student := seedStudent(t, db, "ADM-531", "Asha", "Rao", &class.ID)

	for i := 0; i < 3; i++ {
		seedPaidCollection(t, db, student.ID, 100)
	}

	feed, err := svc.GetPayments(context.Background(), 1, 2, nil)
	require.NoError(t, err)

	require.Len(t, feed.Payments, 2)
	require.Equal(t, "Asha Rao", feed.Payments[0].StudentName)
	require.Equal(t, int64(3), feed.Pagination.TotalCount)
	require.Equal(t, 2, feed.Pagination.TotalPages)
	require.True(t, feed.Pagination.HasNextPage)
	require.False(t, feed.Pagination.HasPrevPage)
}

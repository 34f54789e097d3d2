package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// DashboardRepository supplies the counts and sums behind the dashboard
// snapshot. Everything here is read-only aggregation.
type DashboardRepository interface {
	CountStudents(ctx context.Context) (int64, error)
	CountClasses(ctx context.Context, batchID *uint, activeOnly bool) (int64, error)
	CountStaff(ctx context.Context) (int64, error)
	SumCollectedFees(ctx context.Context, batchID *uint) (float64, error)
	CountStudentsInBatch(ctx context.Context, batchID uint) (int64, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository constructs a dashboard repository.
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountStudents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountClasses(ctx context.Context, batchID *uint, activeOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Class{})
	if batchID != nil {
		query = query.Where("batch_id = ?", *batchID)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountStaff(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role IN ?", []string{models.RoleAdmin, models.RoleStaff}).
		Count(&count).Error
	return count, err
}

// SumCollectedFees totals PAID collections, optionally restricted to
// students whose active enrollment sits in the given batch.
func (r *dashboardRepository) SumCollectedFees(ctx context.Context, batchID *uint) (float64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.FeeCollection{}).
		Where("status = ?", models.PaymentStatusPaid)
	if batchID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM student_class_enrollments e JOIN classes c ON c.id = e.class_id WHERE e.student_id = fee_collections.student_id AND c.batch_id = ? AND e.is_active = ?)",
			*batchID, true,
		)
	}

	var total *float64
	if err := query.Select("SUM(amount_paid)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *dashboardRepository) CountStudentsInBatch(ctx context.Context, batchID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where(
			"EXISTS (SELECT 1 FROM student_class_enrollments e JOIN classes c ON c.id = e.class_id WHERE e.student_id = students.id AND c.batch_id = ? AND e.is_active = ?)",
			batchID, true,
		).
		Count(&count).Error
	return count, err
}

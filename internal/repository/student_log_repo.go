package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// StudentLogRepository reads the append-only audit trail. Writes happen
// inside the student and fee-collection transactions, never here.
type StudentLogRepository interface {
	Feed(ctx context.Context, page, limit int, batchID *uint) ([]models.StudentLog, int64, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.StudentLog, error)
}

type studentLogRepository struct {
	db *gorm.DB
}

// NewStudentLogRepository constructs a student log repository.
func NewStudentLogRepository(db *gorm.DB) StudentLogRepository {
	return &studentLogRepository{db: db}
}

func (r *studentLogRepository) Feed(ctx context.Context, page, limit int, batchID *uint) ([]models.StudentLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StudentLog{})
	if batchID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM student_class_enrollments e JOIN classes c ON c.id = e.class_id WHERE e.student_id = student_logs.student_id AND c.batch_id = ? AND e.is_active = ?)",
			*batchID, true,
		)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}

	var logs []models.StudentLog
	err := query.
		Preload("Student").
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *studentLogRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.StudentLog, error) {
	var logs []models.StudentLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

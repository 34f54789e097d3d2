package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// StudentFilter narrows student listings. ClassID wins over BatchID; both
// match through the active enrollment.
type StudentFilter struct {
	BatchID *uint
	ClassID *uint
	Search  string
}

// StudentRepository provides access to students, their enrollment history and
// the transactional write paths that must stay atomic.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	AdmissionNumberTaken(ctx context.Context, admissionNumber string) (bool, error)
	CreateWithEnrollment(ctx context.Context, student *models.Student, classID *uint, userID uint) error
	AssignClass(ctx context.Context, studentID, classID, userID uint) (models.StudentClassEnrollment, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Preload("Enrollments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("student_class_enrollments.created_at DESC")
		}).
		Preload("Enrollments.Class").
		Preload("Enrollments.Class.Batch").
		Preload("FeeCollections")

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(admission_number) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like, like,
		)
	}

	if filter.ClassID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM student_class_enrollments e WHERE e.student_id = students.id AND e.class_id = ? AND e.is_active = ?)",
			*filter.ClassID, true,
		)
	} else if filter.BatchID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM student_class_enrollments e JOIN classes c ON c.id = e.class_id WHERE e.student_id = students.id AND c.batch_id = ? AND e.is_active = ?)",
			*filter.BatchID, true,
		)
	}

	var students []models.Student
	err := query.
		Order("first_name ASC").
		Order("last_name ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("Enrollments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("student_class_enrollments.created_at DESC")
		}).
		Preload("Enrollments.Class").
		Preload("Enrollments.Class.Batch").
		Preload("FeeCollections").
		First(&student, id).Error
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) AdmissionNumberTaken(ctx context.Context, admissionNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("admission_number = ?", admissionNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateWithEnrollment registers a student, optionally enrolls them, and
// writes the audit rows — all in one transaction so a failed enrollment or
// audit write rolls the student back too.
func (r *studentRepository) CreateWithEnrollment(ctx context.Context, student *models.Student, classID *uint, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(student).Error; err != nil {
			return err
		}

		created := "Student created"
		if err := tx.Create(&models.StudentLog{
			StudentID: student.ID,
			Field:     models.LogFieldStudent,
			NewValue:  &created,
			Action:    models.LogActionCreate,
			UserID:    userID,
		}).Error; err != nil {
			return err
		}

		if classID == nil {
			return nil
		}

		enrollment := models.StudentClassEnrollment{
			StudentID: student.ID,
			ClassID:   *classID,
			IsActive:  true,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		assigned := strconv.FormatUint(uint64(*classID), 10)
		return tx.Create(&models.StudentLog{
			StudentID: student.ID,
			Field:     models.LogFieldClassAssignment,
			NewValue:  &assigned,
			Action:    models.LogActionCreate,
			UserID:    userID,
		}).Error
	})
}

// AssignClass activates a new enrollment for the student. Any previously
// active enrollment is deactivated in the same transaction, which is what
// keeps the "at most one active enrollment" invariant honest.
func (r *studentRepository) AssignClass(ctx context.Context, studentID, classID, userID uint) (models.StudentClassEnrollment, error) {
	var enrollment models.StudentClassEnrollment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var previous models.StudentClassEnrollment
		var oldValue *string
		action := models.LogActionCreate

		err := tx.Where("student_id = ?", studentID).
			Where("is_active = ?", true).
			Order("created_at DESC").
			First(&previous).Error
		switch {
		case err == nil:
			old := strconv.FormatUint(uint64(previous.ClassID), 10)
			oldValue = &old
			action = models.LogActionUpdate
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Model(&models.StudentClassEnrollment{}).
			Where("student_id = ?", studentID).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		enrollment = models.StudentClassEnrollment{
			StudentID: studentID,
			ClassID:   classID,
			IsActive:  true,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		newValue := strconv.FormatUint(uint64(classID), 10)
		return tx.Create(&models.StudentLog{
			StudentID: studentID,
			Field:     models.LogFieldClassAssignment,
			OldValue:  oldValue,
			NewValue:  &newValue,
			Action:    action,
			UserID:    userID,
		}).Error
	})
	if err != nil {
		return models.StudentClassEnrollment{}, err
	}

	return enrollment, nil
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// PaymentRecord carries everything needed to persist one payment event.
type PaymentRecord struct {
	StudentID       uint
	Amount          float64
	PaymentMethod   string
	Remarks         *string
	FeeStructureIDs []uint
	CollectedByID   uint
	PaymentDate     time.Time
}

// FeeCollectionRepository provides access to payment events. RecordPayment is
// the only write path; collections are never updated or deleted.
type FeeCollectionRepository interface {
	RecordPayment(ctx context.Context, record PaymentRecord) (models.FeeCollection, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.FeeCollection, error)
	ListRecent(ctx context.Context, limit int) ([]models.FeeCollection, error)
	Feed(ctx context.Context, page, limit int, batchID *uint) ([]models.FeeCollection, int64, error)
}

type feeCollectionRepository struct {
	db *gorm.DB
}

// NewFeeCollectionRepository constructs a fee collection repository.
func NewFeeCollectionRepository(db *gorm.DB) FeeCollectionRepository {
	return &feeCollectionRepository{db: db}
}

// RecordPayment inserts the collection row, its fee-structure join rows and
// the audit entry in one transaction. On Postgres a per-student advisory lock
// is held for the duration so two concurrent submissions for the same student
// serialize instead of racing.
func (r *feeCollectionRepository) RecordPayment(ctx context.Context, record PaymentRecord) (models.FeeCollection, error) {
	var collection models.FeeCollection

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(record.StudentID)).Error; err != nil {
				return err
			}
		}

		created, err := r.recordPaymentTx(tx, record)
		if err != nil {
			return err
		}
		collection = created
		return nil
	})
	if err != nil {
		return models.FeeCollection{}, err
	}

	return collection, nil
}

// recordPaymentTx is the transaction body; split out so tests can exercise
// rollback behaviour around it.
func (r *feeCollectionRepository) recordPaymentTx(tx *gorm.DB, record PaymentRecord) (models.FeeCollection, error) {
	var student models.Student
	if err := tx.First(&student, record.StudentID).Error; err != nil {
		return models.FeeCollection{}, err
	}

	var fees []models.FeeStructure
	if err := tx.Where("id IN ?", record.FeeStructureIDs).Find(&fees).Error; err != nil {
		return models.FeeCollection{}, err
	}
	if len(fees) != len(record.FeeStructureIDs) {
		return models.FeeCollection{}, gorm.ErrRecordNotFound
	}

	collection := models.FeeCollection{
		StudentID:     record.StudentID,
		AmountPaid:    record.Amount,
		PaymentMethod: record.PaymentMethod,
		Status:        models.PaymentStatusPaid,
		PaymentDate:   record.PaymentDate,
		Remarks:       record.Remarks,
		CollectedByID: record.CollectedByID,
	}
	if err := tx.Create(&collection).Error; err != nil {
		return models.FeeCollection{}, err
	}

	for _, fee := range fees {
		if err := tx.Exec(
			"INSERT INTO fee_collection_structures (fee_collection_id, fee_structure_id) VALUES (?, ?)",
			collection.ID, fee.ID,
		).Error; err != nil {
			return models.FeeCollection{}, err
		}
	}

	if err := tx.Create(&models.StudentLog{
		StudentID: record.StudentID,
		Field:     models.LogFieldFeePayment,
		Action:    models.LogActionCreate,
		UserID:    record.CollectedByID,
	}).Error; err != nil {
		return models.FeeCollection{}, err
	}

	collection.Student = student
	collection.FeeStructures = fees
	return collection, nil
}

func (r *feeCollectionRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.FeeCollection, error) {
	var collections []models.FeeCollection
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("FeeStructures").
		Where("student_id = ?", studentID).
		Order("payment_date DESC").
		Find(&collections).Error
	return collections, err
}

func (r *feeCollectionRepository) ListRecent(ctx context.Context, limit int) ([]models.FeeCollection, error) {
	var collections []models.FeeCollection
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.Enrollments").
		Preload("Student.Enrollments.Class").
		Order("payment_date DESC").
		Limit(limit).
		Find(&collections).Error
	return collections, err
}

func (r *feeCollectionRepository) Feed(ctx context.Context, page, limit int, batchID *uint) ([]models.FeeCollection, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FeeCollection{})
	if batchID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM student_class_enrollments e JOIN classes c ON c.id = e.class_id WHERE e.student_id = fee_collections.student_id AND c.batch_id = ? AND e.is_active = ?)",
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

	var collections []models.FeeCollection
	err := query.
		Preload("Student").
		Order("payment_date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&collections).Error
	if err != nil {
		return nil, 0, err
	}

	return collections, total, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// SubjectFilter narrows subject listings. ClassID wins over BatchID.
type SubjectFilter struct {
	BatchID *uint
	ClassID *uint
}

// SubjectRepository provides access to curriculum subjects.
type SubjectRepository interface {
	List(ctx context.Context, filter SubjectFilter) ([]models.Subject, error)
	GetByID(ctx context.Context, id uint) (models.Subject, error)
	NameTakenInClass(ctx context.Context, name string, classID uint, excludeID uint) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Subject, error)
	Delete(ctx context.Context, id uint) error
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository constructs a subject repository.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) List(ctx context.Context, filter SubjectFilter) ([]models.Subject, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Subject{}).
		Preload("Class").
		Preload("Class.Batch").
		Joins("JOIN classes ON classes.id = subjects.class_id")

	if filter.ClassID != nil {
		query = query.Where("subjects.class_id = ?", *filter.ClassID)
	} else if filter.BatchID != nil {
		query = query.Where("classes.batch_id = ?", *filter.BatchID)
	}

	var subjects []models.Subject
	err := query.
		Order("classes.name ASC").
		Order("subjects.name ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepository) GetByID(ctx context.Context, id uint) (models.Subject, error) {
	var subject models.Subject
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Class.Batch").
		First(&subject, id).Error
	if err != nil {
		return models.Subject{}, err
	}
	return subject, nil
}

func (r *subjectRepository) NameTakenInClass(ctx context.Context, name string, classID uint, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Subject{}).
		Where("name = ?", name).
		Where("class_id = ?", classID)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Subject, error) {
	result := r.db.WithContext(ctx).Model(&models.Subject{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Subject{}, result.Error
	}
	return r.GetByID(ctx, id)
}

func (r *subjectRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Subject{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

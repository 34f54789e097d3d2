package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// ClassFilter narrows class listings.
type ClassFilter struct {
	BatchID *uint
}

// ClassRepository provides access to classes and their dependent counts.
type ClassRepository interface {
	List(ctx context.Context, filter ClassFilter) ([]models.Class, error)
	GetByID(ctx context.Context, id uint) (models.Class, error)
	FindByNameSectionBatch(ctx context.Context, name string, section *string, batchID uint, excludeID uint) (models.Class, error)
	ListByIDsInBatch(ctx context.Context, ids []uint, batchID uint) ([]models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Class, error)
	Delete(ctx context.Context, id uint) error
	CountSubjects(ctx context.Context, classID uint) (int64, error)
	CountEnrollments(ctx context.Context, classID uint, activeOnly bool) (int64, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository constructs a class repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) List(ctx context.Context, filter ClassFilter) ([]models.Class, error) {
	query := r.db.WithContext(ctx).Model(&models.Class{}).Preload("Batch")
	if filter.BatchID != nil {
		query = query.Where("batch_id = ?", *filter.BatchID)
	}

	var classes []models.Class
	err := query.
		Joins("JOIN batches ON batches.id = classes.batch_id").
		Order("batches.start_year DESC").
		Order("classes.name ASC").
		Find(&classes).Error
	return classes, err
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).Preload("Batch").First(&class, id).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}

// FindByNameSectionBatch resolves the uniqueness triple. A nil section only
// matches rows whose section is NULL.
func (r *classRepository) FindByNameSectionBatch(ctx context.Context, name string, section *string, batchID uint, excludeID uint) (models.Class, error) {
	query := r.db.WithContext(ctx).Where("name = ?", name).Where("batch_id = ?", batchID)
	if section == nil || *section == "" {
		query = query.Where("section IS NULL OR section = ''")
	} else {
		query = query.Where("section = ?", *section)
	}
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var class models.Class
	if err := query.First(&class).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) ListByIDsInBatch(ctx context.Context, ids []uint, batchID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("batch_id = ?", batchID).
		Find(&classes).Error
	return classes, err
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Class, error) {
	result := r.db.WithContext(ctx).Model(&models.Class{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Class{}, result.Error
	}
	return r.GetByID(ctx, id)
}

func (r *classRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Class{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *classRepository) CountSubjects(ctx context.Context, classID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Subject{}).
		Where("class_id = ?", classID).
		Count(&count).Error
	return count, err
}

func (r *classRepository) CountEnrollments(ctx context.Context, classID uint, activeOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StudentClassEnrollment{}).
		Where("class_id = ?", classID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

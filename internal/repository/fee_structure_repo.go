package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// FeeStructureFilter narrows fee structure listings. ClassID wins over BatchID.
type FeeStructureFilter struct {
	BatchID *uint
	ClassID *uint
}

// FeeStructureRepository provides access to fee structures.
type FeeStructureRepository interface {
	List(ctx context.Context, filter FeeStructureFilter) ([]models.FeeStructure, error)
	GetByID(ctx context.Context, id uint) (models.FeeStructure, error)
	ListByClassIDs(ctx context.Context, classIDs []uint) ([]models.FeeStructure, error)
	NameTakenInClass(ctx context.Context, name string, classID uint, excludeID uint) (bool, error)
	Create(ctx context.Context, fee *models.FeeStructure) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.FeeStructure, error)
	Delete(ctx context.Context, id uint) error
	CountCollections(ctx context.Context, feeStructureID uint) (int64, error)
}

type feeStructureRepository struct {
	db *gorm.DB
}

// NewFeeStructureRepository constructs a fee structure repository.
func NewFeeStructureRepository(db *gorm.DB) FeeStructureRepository {
	return &feeStructureRepository{db: db}
}

func (r *feeStructureRepository) List(ctx context.Context, filter FeeStructureFilter) ([]models.FeeStructure, error) {
	query := r.db.WithContext(ctx).
		Model(&models.FeeStructure{}).
		Preload("Class").
		Preload("Class.Batch").
		Joins("JOIN classes ON classes.id = fee_structures.class_id")

	if filter.ClassID != nil {
		query = query.Where("fee_structures.class_id = ?", *filter.ClassID)
	} else if filter.BatchID != nil {
		query = query.Where("classes.batch_id = ?", *filter.BatchID)
	}

	var fees []models.FeeStructure
	err := query.
		Order("classes.name ASC").
		Order("fee_structures.name ASC").
		Find(&fees).Error
	return fees, err
}

func (r *feeStructureRepository) GetByID(ctx context.Context, id uint) (models.FeeStructure, error) {
	var fee models.FeeStructure
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Class.Batch").
		First(&fee, id).Error
	if err != nil {
		return models.FeeStructure{}, err
	}
	return fee, nil
}

func (r *feeStructureRepository) ListByClassIDs(ctx context.Context, classIDs []uint) ([]models.FeeStructure, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}

	var fees []models.FeeStructure
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Class.Batch").
		Where("class_id IN ?", classIDs).
		Find(&fees).Error
	return fees, err
}

func (r *feeStructureRepository) NameTakenInClass(ctx context.Context, name string, classID uint, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.FeeStructure{}).
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

func (r *feeStructureRepository) Create(ctx context.Context, fee *models.FeeStructure) error {
	return r.db.WithContext(ctx).Create(fee).Error
}

func (r *feeStructureRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.FeeStructure, error) {
	result := r.db.WithContext(ctx).Model(&models.FeeStructure{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.FeeStructure{}, result.Error
	}
	return r.GetByID(ctx, id)
}

func (r *feeStructureRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.FeeStructure{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *feeStructureRepository) CountCollections(ctx context.Context, feeStructureID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("fee_collection_structures").
		Where("fee_structure_id = ?", feeStructureID).
		Count(&count).Error
	return count, err
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// BatchRepository provides access to academic batches.
type BatchRepository interface {
	List(ctx context.Context) ([]models.Batch, error)
	GetByID(ctx context.Context, id uint) (models.Batch, error)
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Batch, error)
	Delete(ctx context.Context, id uint) error
	CountClasses(ctx context.Context, batchID uint) (int64, error)
	Latest(ctx context.Context) (models.Batch, error)
}

type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository constructs a batch repository.
func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) List(ctx context.Context) ([]models.Batch, error) {
	var batches []models.Batch
	err := r.db.WithContext(ctx).
		Order("is_active DESC").
		Order("start_year DESC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepository) GetByID(ctx context.Context, id uint) (models.Batch, error) {
	var batch models.Batch
	if err := r.db.WithContext(ctx).First(&batch, id).Error; err != nil {
		return models.Batch{}, err
	}
	return batch, nil
}

func (r *batchRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Batch{}).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *batchRepository) Create(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *batchRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Batch, error) {
	result := r.db.WithContext(ctx).Model(&models.Batch{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Batch{}, result.Error
	}
	return r.GetByID(ctx, id)
}

func (r *batchRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Batch{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *batchRepository) CountClasses(ctx context.Context, batchID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Class{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error
	return count, err
}

func (r *batchRepository) Latest(ctx context.Context) (models.Batch, error) {
	var batch models.Batch
	if err := r.db.WithContext(ctx).Order("start_year DESC").First(&batch).Error; err != nil {
		return models.Batch{}, err
	}
	return batch, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/repository"
)

// Batch sentinel errors.
var (
	ErrBatchNotFound   = errors.New("batch not found")
	ErrBatchNameTaken  = errors.New("batch with this name already exists")
	ErrBatchYearOrder  = errors.New("end year must be greater than start year")
	ErrBatchHasClasses = errors.New("cannot delete batch with associated classes")
)

// BatchService manages academic-year cohorts.
type BatchService interface {
	List(ctx context.Context) ([]dto.BatchResponse, error)
	Create(ctx context.Context, req dto.BatchCreateRequest, actor Actor) (dto.BatchResponse, error)
	Update(ctx context.Context, id uint, req dto.BatchUpdateRequest) (dto.BatchResponse, error)
	Delete(ctx context.Context, id uint) error
}

type batchService struct {
	repo      repository.BatchRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewBatchService constructs the batch service.
func NewBatchService(repo repository.BatchRepository, validator *validator.Validate, logger zerolog.Logger) BatchService {
	return &batchService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "batch_service").Logger(),
	}
}

func (s *batchService) List(ctx context.Context) ([]dto.BatchResponse, error) {
	batches, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BatchResponse, 0, len(batches))
	for _, batch := range batches {
		count, err := s.repo.CountClasses(ctx, batch.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewBatchResponse(batch, count))
	}
	return responses, nil
}

func (s *batchService) Create(ctx context.Context, req dto.BatchCreateRequest, actor Actor) (dto.BatchResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BatchResponse{}, err
	}

	if req.EndYear <= req.StartYear {
		return dto.BatchResponse{}, ErrBatchYearOrder
	}

	name := strings.TrimSpace(req.Name)
	taken, err := s.repo.NameTaken(ctx, name, 0)
	if err != nil {
		return dto.BatchResponse{}, err
	}
	if taken {
		return dto.BatchResponse{}, ErrBatchNameTaken
	}

	batch := models.Batch{
		Name:        name,
		StartYear:   req.StartYear,
		EndYear:     req.EndYear,
		IsActive:    true,
		CreatedByID: actor.ID,
	}
	if err := s.repo.Create(ctx, &batch); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create batch")
		return dto.BatchResponse{}, err
	}

	return dto.NewBatchResponse(batch, 0), nil
}

func (s *batchService) Update(ctx context.Context, id uint, req dto.BatchUpdateRequest) (dto.BatchResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BatchResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BatchResponse{}, ErrBatchNotFound
		}
		return dto.BatchResponse{}, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != existing.Name {
			taken, err := s.repo.NameTaken(ctx, name, id)
			if err != nil {
				return dto.BatchResponse{}, err
			}
			if taken {
				return dto.BatchResponse{}, ErrBatchNameTaken
			}
		}
		updates["name"] = name
	}

	startYear := existing.StartYear
	endYear := existing.EndYear
	if req.StartYear != nil {
		startYear = *req.StartYear
		updates["start_year"] = startYear
	}
	if req.EndYear != nil {
		endYear = *req.EndYear
		updates["end_year"] = endYear
	}
	if endYear <= startYear {
		return dto.BatchResponse{}, ErrBatchYearOrder
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		count, err := s.repo.CountClasses(ctx, id)
		if err != nil {
			return dto.BatchResponse{}, err
		}
		return dto.NewBatchResponse(existing, count), nil
	}

	batch, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return dto.BatchResponse{}, err
	}

	count, err := s.repo.CountClasses(ctx, id)
	if err != nil {
		return dto.BatchResponse{}, err
	}
	return dto.NewBatchResponse(batch, count), nil
}

// Delete removes a batch once its dependent-class count reads zero. The check
// and the delete are separate statements; a concurrent class create can still
// slip between them, so this is a best-effort guard, not a hard guarantee.
func (s *batchService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBatchNotFound
		}
		return err
	}

	count, err := s.repo.CountClasses(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrBatchHasClasses
	}

	return s.repo.Delete(ctx, id)
}

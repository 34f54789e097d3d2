package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/repository"
)

// Fee structure sentinel errors.
var (
	ErrFeeStructureNotFound = errors.New("fee structure not found")
	ErrFeeStructureExists   = errors.New("fee structure with this name already exists in this class")
	ErrFeeStructureInUse    = errors.New("cannot delete fee structure with recorded collections")
	ErrInvalidDueDate       = errors.New("due date must use the YYYY-MM-DD format")
)

const dueDateLayout = "2006-01-02"

// FeeStructureService manages per-class fee line items.
type FeeStructureService interface {
	List(ctx context.Context, filter repository.FeeStructureFilter) ([]dto.FeeStructureResponse, error)
	Create(ctx context.Context, req dto.FeeStructureCreateRequest) (dto.FeeStructureResponse, error)
	Update(ctx context.Context, id uint, req dto.FeeStructureUpdateRequest) (dto.FeeStructureResponse, error)
	Delete(ctx context.Context, id uint) error
}

type feeStructureService struct {
	repo      repository.FeeStructureRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewFeeStructureService constructs the fee structure service.
func NewFeeStructureService(repo repository.FeeStructureRepository, classes repository.ClassRepository, validator *validator.Validate, logger zerolog.Logger) FeeStructureService {
	return &feeStructureService{
		repo:      repo,
		classes:   classes,
		validator: validator,
		logger:    logger.With().Str("component", "fee_structure_service").Logger(),
	}
}

func (s *feeStructureService) List(ctx context.Context, filter repository.FeeStructureFilter) ([]dto.FeeStructureResponse, error) {
	fees, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.FeeStructureResponse, 0, len(fees))
	for _, fee := range fees {
		responses = append(responses, dto.NewFeeStructureResponse(fee))
	}
	return responses, nil
}

func (s *feeStructureService) Create(ctx context.Context, req dto.FeeStructureCreateRequest) (dto.FeeStructureResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.FeeStructureResponse{}, err
	}

	if _, err := s.classes.GetByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeStructureResponse{}, ErrClassNotFound
		}
		return dto.FeeStructureResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	taken, err := s.repo.NameTakenInClass(ctx, name, req.ClassID, 0)
	if err != nil {
		return dto.FeeStructureResponse{}, err
	}
	if taken {
		return dto.FeeStructureResponse{}, ErrFeeStructureExists
	}

	feeType := req.Type
	if feeType == "" {
		feeType = models.FeeTypeMonthly
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return dto.FeeStructureResponse{}, err
	}

	fee := models.FeeStructure{
		Name:     name,
		Amount:   req.Amount,
		Type:     feeType,
		DueDate:  dueDate,
		IsActive: true,
		ClassID:  req.ClassID,
	}
	if err := s.repo.Create(ctx, &fee); err != nil {
		s.logger.Error().Err(err).Str("name", name).Uint("class_id", req.ClassID).Msg("failed to create fee structure")
		return dto.FeeStructureResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, fee.ID)
	if err != nil {
		return dto.FeeStructureResponse{}, err
	}
	return dto.NewFeeStructureResponse(created), nil
}

func (s *feeStructureService) Update(ctx context.Context, id uint, req dto.FeeStructureUpdateRequest) (dto.FeeStructureResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.FeeStructureResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeStructureResponse{}, ErrFeeStructureNotFound
		}
		return dto.FeeStructureResponse{}, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != existing.Name {
			taken, err := s.repo.NameTakenInClass(ctx, name, existing.ClassID, id)
			if err != nil {
				return dto.FeeStructureResponse{}, err
			}
			if taken {
				return dto.FeeStructureResponse{}, ErrFeeStructureExists
			}
		}
		updates["name"] = name
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return dto.FeeStructureResponse{}, err
		}
		updates["due_date"] = dueDate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return dto.NewFeeStructureResponse(existing), nil
	}

	fee, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return dto.FeeStructureResponse{}, err
	}
	return dto.NewFeeStructureResponse(fee), nil
}

// Delete removes a fee structure unless collections reference it. Referenced
// structures are retired with is_active=false instead so historical payments
// stay resolvable.
func (s *feeStructureService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeeStructureNotFound
		}
		return err
	}

	count, err := s.repo.CountCollections(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrFeeStructureInUse
	}

	return s.repo.Delete(ctx, id)
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dueDateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &parsed, nil
}

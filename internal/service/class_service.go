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

// Class sentinel errors.
var (
	ErrClassNotFound       = errors.New("class not found")
	ErrClassExists         = errors.New("class with this name and section already exists in this batch")
	ErrClassHasSubjects    = errors.New("cannot delete class with associated subjects")
	ErrClassHasEnrollments = errors.New("cannot delete class with active enrollments")
	ErrImportNoClasses     = errors.New("no valid classes found to import")
)

// Import skip reasons reported back as data rather than raised as errors.
const (
	skipReasonExists = "Already exists"
	skipReasonFailed = "Import failed"
)

// ClassService manages teaching groups within batches.
type ClassService interface {
	List(ctx context.Context, filter repository.ClassFilter) ([]dto.ClassResponse, error)
	Create(ctx context.Context, req dto.ClassCreateRequest, actor Actor) (dto.ClassResponse, error)
	Update(ctx context.Context, id uint, req dto.ClassUpdateRequest) (dto.ClassResponse, error)
	Delete(ctx context.Context, id uint) error
	Import(ctx context.Context, req dto.ImportClassesRequest, actor Actor) (dto.ImportClassesResponse, error)
}

type classService struct {
	repo      repository.ClassRepository
	batches   repository.BatchRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewClassService constructs the class service.
func NewClassService(repo repository.ClassRepository, batches repository.BatchRepository, validator *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		repo:      repo,
		batches:   batches,
		validator: validator,
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) List(ctx context.Context, filter repository.ClassFilter) ([]dto.ClassResponse, error) {
	classes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ClassResponse, 0, len(classes))
	for _, class := range classes {
		counts, err := s.counts(ctx, class.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewClassResponse(class, counts))
	}
	return responses, nil
}

func (s *classService) counts(ctx context.Context, classID uint) (dto.ClassCounts, error) {
	subjects, err := s.repo.CountSubjects(ctx, classID)
	if err != nil {
		return dto.ClassCounts{}, err
	}
	enrollments, err := s.repo.CountEnrollments(ctx, classID, false)
	if err != nil {
		return dto.ClassCounts{}, err
	}
	return dto.ClassCounts{Subjects: subjects, Enrollments: enrollments}, nil
}

func (s *classService) Create(ctx context.Context, req dto.ClassCreateRequest, actor Actor) (dto.ClassResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ClassResponse{}, err
	}

	if _, err := s.batches.GetByID(ctx, req.BatchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrBatchNotFound
		}
		return dto.ClassResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	if _, err := s.repo.FindByNameSectionBatch(ctx, name, req.Section, req.BatchID, 0); err == nil {
		return dto.ClassResponse{}, ErrClassExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ClassResponse{}, err
	}

	class := models.Class{
		Name:        name,
		Section:     req.Section,
		Capacity:    req.Capacity,
		IsActive:    true,
		BatchID:     req.BatchID,
		CreatedByID: actor.ID,
	}
	if err := s.repo.Create(ctx, &class); err != nil {
		s.logger.Error().Err(err).Str("name", name).Uint("batch_id", req.BatchID).Msg("failed to create class")
		return dto.ClassResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, class.ID)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(created, dto.ClassCounts{}), nil
}

func (s *classService) Update(ctx context.Context, id uint, req dto.ClassUpdateRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ClassResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	name := existing.Name
	section := existing.Section
	updates := make(map[string]interface{})
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		updates["name"] = name
	}
	if req.Section != nil {
		section = req.Section
		updates["section"] = req.Section
	}
	if req.Name != nil || req.Section != nil {
		if _, err := s.repo.FindByNameSectionBatch(ctx, name, section, existing.BatchID, id); err == nil {
			return dto.ClassResponse{}, ErrClassExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, err
		}
	}
	if req.Capacity != nil {
		updates["capacity"] = req.Capacity
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	class := existing
	if len(updates) > 0 {
		class, err = s.repo.Update(ctx, id, updates)
		if err != nil {
			return dto.ClassResponse{}, err
		}
	}

	counts, err := s.counts(ctx, id)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(class, counts), nil
}

// Delete removes a class once both dependent counts read zero. Subjects block
// first, then active enrollments, so the error names the dependent type.
func (s *classService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}

	subjects, err := s.repo.CountSubjects(ctx, id)
	if err != nil {
		return err
	}
	if subjects > 0 {
		return ErrClassHasSubjects
	}

	enrollments, err := s.repo.CountEnrollments(ctx, id, true)
	if err != nil {
		return err
	}
	if enrollments > 0 {
		return ErrClassHasEnrollments
	}

	return s.repo.Delete(ctx, id)
}

// Import clones classes from one batch into another, skipping duplicates.
// The operation is deliberately non-atomic: each class imports or skips on
// its own, and failures are reported back per item instead of aborting the run.
func (s *classService) Import(ctx context.Context, req dto.ImportClassesRequest, actor Actor) (dto.ImportClassesResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ImportClassesResponse{}, err
	}

	if _, err := s.batches.GetByID(ctx, req.SourceBatchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ImportClassesResponse{}, ErrBatchNotFound
		}
		return dto.ImportClassesResponse{}, err
	}
	if _, err := s.batches.GetByID(ctx, req.TargetBatchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ImportClassesResponse{}, ErrBatchNotFound
		}
		return dto.ImportClassesResponse{}, err
	}

	sources, err := s.repo.ListByIDsInBatch(ctx, req.ClassIDs, req.SourceBatchID)
	if err != nil {
		return dto.ImportClassesResponse{}, err
	}
	if len(sources) == 0 {
		return dto.ImportClassesResponse{}, ErrImportNoClasses
	}

	response := dto.ImportClassesResponse{
		Imported: make([]dto.ClassResponse, 0, len(sources)),
		Skipped:  make([]dto.SkippedClass, 0),
	}

	for _, source := range sources {
		if _, err := s.repo.FindByNameSectionBatch(ctx, source.Name, source.Section, req.TargetBatchID, 0); err == nil {
			response.Skipped = append(response.Skipped, dto.SkippedClass{
				Name:    source.Name,
				Section: source.Section,
				Reason:  skipReasonExists,
			})
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error().Err(err).Str("name", source.Name).Msg("failed to check target batch for class")
			response.Skipped = append(response.Skipped, dto.SkippedClass{
				Name:    source.Name,
				Section: source.Section,
				Reason:  skipReasonFailed,
			})
			continue
		}

		clone := models.Class{
			Name:        source.Name,
			Section:     source.Section,
			Capacity:    source.Capacity,
			IsActive:    true,
			BatchID:     req.TargetBatchID,
			CreatedByID: actor.ID,
		}
		if err := s.repo.Create(ctx, &clone); err != nil {
			s.logger.Error().Err(err).Str("name", source.Name).Msg("failed to import class")
			response.Skipped = append(response.Skipped, dto.SkippedClass{
				Name:    source.Name,
				Section: source.Section,
				Reason:  skipReasonFailed,
			})
			continue
		}

		created, err := s.repo.GetByID(ctx, clone.ID)
		if err != nil {
			return dto.ImportClassesResponse{}, err
		}
		response.Imported = append(response.Imported, dto.NewClassResponse(created, dto.ClassCounts{}))
	}

	response.ImportedCount = len(response.Imported)
	response.SkippedCount = len(response.Skipped)
	return response, nil
}

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

// Subject sentinel errors.
var (
	ErrSubjectNotFound       = errors.New("subject not found")
	ErrSubjectExists         = errors.New("subject with this name already exists in this class")
	ErrSubjectHasEnrollments = errors.New("cannot delete subject while students are enrolled in its class")
)

// SubjectService manages curriculum subjects.
type SubjectService interface {
	List(ctx context.Context, filter repository.SubjectFilter) ([]dto.SubjectResponse, error)
	Create(ctx context.Context, req dto.SubjectCreateRequest) (dto.SubjectResponse, error)
	Update(ctx context.Context, id uint, req dto.SubjectUpdateRequest) (dto.SubjectResponse, error)
	Delete(ctx context.Context, id uint) error
}

type subjectService struct {
	repo      repository.SubjectRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(repo repository.SubjectRepository, classes repository.ClassRepository, validator *validator.Validate, logger zerolog.Logger) SubjectService {
	return &subjectService{
		repo:      repo,
		classes:   classes,
		validator: validator,
		logger:    logger.With().Str("component", "subject_service").Logger(),
	}
}

func (s *subjectService) List(ctx context.Context, filter repository.SubjectFilter) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		responses = append(responses, dto.NewSubjectResponse(subject))
	}
	return responses, nil
}

func (s *subjectService) Create(ctx context.Context, req dto.SubjectCreateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SubjectResponse{}, err
	}

	if _, err := s.classes.GetByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrClassNotFound
		}
		return dto.SubjectResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	taken, err := s.repo.NameTakenInClass(ctx, name, req.ClassID, 0)
	if err != nil {
		return dto.SubjectResponse{}, err
	}
	if taken {
		return dto.SubjectResponse{}, ErrSubjectExists
	}

	subjectType := req.Type
	if subjectType == "" {
		subjectType = models.SubjectTypeCore
	}

	subject := models.Subject{
		Name:     name,
		Code:     req.Code,
		Type:     subjectType,
		IsActive: true,
		ClassID:  req.ClassID,
	}
	if err := s.repo.Create(ctx, &subject); err != nil {
		s.logger.Error().Err(err).Str("name", name).Uint("class_id", req.ClassID).Msg("failed to create subject")
		return dto.SubjectResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, subject.ID)
	if err != nil {
		return dto.SubjectResponse{}, err
	}
	return dto.NewSubjectResponse(created), nil
}

func (s *subjectService) Update(ctx context.Context, id uint, req dto.SubjectUpdateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SubjectResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrSubjectNotFound
		}
		return dto.SubjectResponse{}, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != existing.Name {
			taken, err := s.repo.NameTakenInClass(ctx, name, existing.ClassID, id)
			if err != nil {
				return dto.SubjectResponse{}, err
			}
			if taken {
				return dto.SubjectResponse{}, ErrSubjectExists
			}
		}
		updates["name"] = name
	}
	if req.Code != nil {
		updates["code"] = req.Code
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return dto.NewSubjectResponse(existing), nil
	}

	subject, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return dto.SubjectResponse{}, err
	}
	return dto.NewSubjectResponse(subject), nil
}

// Delete removes a subject unless students are actively enrolled in its class.
func (s *subjectService) Delete(ctx context.Context, id uint) error {
	subject, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}

	enrollments, err := s.classes.CountEnrollments(ctx, subject.ClassID, true)
	if err != nil {
		return err
	}
	if enrollments > 0 {
		return ErrSubjectHasEnrollments
	}

	return s.repo.Delete(ctx, id)
}

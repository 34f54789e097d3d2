package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/repository"
)

// Student sentinel errors.
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrAdmissionNumberTaken = errors.New("admission number already exists")
	ErrTooManyProfileImages = errors.New("at most five profile images are allowed")
	ErrInvalidDateOfBirth   = errors.New("date of birth must use the YYYY-MM-DD format")
)

const dateOfBirthLayout = "2006-01-02"

// StudentService manages student registration and class assignment. List and
// Get consult the fee ledger so callers see payment status alongside the
// student record.
type StudentService interface {
	List(ctx context.Context, filter repository.StudentFilter) ([]dto.StudentResponse, error)
	Get(ctx context.Context, id uint) (dto.StudentResponse, error)
	Create(ctx context.Context, req dto.StudentCreateRequest, actor Actor) (dto.StudentResponse, error)
	AssignClass(ctx context.Context, studentID uint, req dto.AssignClassRequest, actor Actor) (dto.StudentResponse, error)
}

type studentService struct {
	repo      repository.StudentRepository
	classes   repository.ClassRepository
	fees      repository.FeeStructureRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	now       func() time.Time
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(
	repo repository.StudentRepository,
	classes repository.ClassRepository,
	fees repository.FeeStructureRepository,
	validator *validator.Validate,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		repo:      repo,
		classes:   classes,
		fees:      fees,
		validator: validator,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, filter repository.StudentFilter) ([]dto.StudentResponse, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	classIDs := make([]uint, 0, len(students))
	seen := make(map[uint]struct{})
	for _, student := range students {
		if enrollment := student.ActiveEnrollment(); enrollment != nil {
			if _, ok := seen[enrollment.ClassID]; !ok {
				seen[enrollment.ClassID] = struct{}{}
				classIDs = append(classIDs, enrollment.ClassID)
			}
		}
	}

	fees, err := s.fees.ListByClassIDs(ctx, classIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		response := dto.NewStudentResponse(student)
		status := ComputePaymentStatus(student, fees, now)
		response.PaymentStatus = &status
		responses = append(responses, response)
	}
	return responses, nil
}

func (s *studentService) Get(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	var fees []models.FeeStructure
	if enrollment := student.ActiveEnrollment(); enrollment != nil {
		fees, err = s.fees.ListByClassIDs(ctx, []uint{enrollment.ClassID})
		if err != nil {
			return dto.StudentResponse{}, err
		}
	}

	response := dto.NewStudentResponse(student)
	status := ComputePaymentStatus(student, fees, s.now())
	response.PaymentStatus = &status
	return response, nil
}

// Create registers a student and, when a class id is supplied, enrolls them.
// The student row, the enrollment and the audit entries are committed in one
// transaction by the repository.
func (s *studentService) Create(ctx context.Context, req dto.StudentCreateRequest, actor Actor) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}
	if len(req.ProfileImages) > models.MaxProfileImages {
		return dto.StudentResponse{}, ErrTooManyProfileImages
	}

	admissionNumber := strings.TrimSpace(req.AdmissionNumber)
	taken, err := s.repo.AdmissionNumberTaken(ctx, admissionNumber)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	if taken {
		return dto.StudentResponse{}, ErrAdmissionNumberTaken
	}

	if req.ClassID != nil {
		if _, err := s.classes.GetByID(ctx, *req.ClassID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.StudentResponse{}, ErrClassNotFound
			}
			return dto.StudentResponse{}, err
		}
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != nil && strings.TrimSpace(*req.DateOfBirth) != "" {
		parsed, err := time.Parse(dateOfBirthLayout, strings.TrimSpace(*req.DateOfBirth))
		if err != nil {
			return dto.StudentResponse{}, ErrInvalidDateOfBirth
		}
		dateOfBirth = &parsed
	}

	images, err := encodeProfileImages(req.ProfileImages)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		AdmissionNumber: admissionNumber,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		DateOfBirth:     dateOfBirth,
		Gender:          req.Gender,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         s.sanitizeOptional(req.Address),
		GuardianName:    s.sanitizeOptional(req.GuardianName),
		GuardianPhone:   req.GuardianPhone,
		GuardianEmail:   req.GuardianEmail,
		ProfileImages:   images,
		IsActive:        true,
	}

	if err := s.repo.CreateWithEnrollment(ctx, &student, req.ClassID, actor.ID); err != nil {
		s.logger.Error().Err(err).Str("admission_number", admissionNumber).Msg("failed to create student")
		return dto.StudentResponse{}, err
	}

	return s.Get(ctx, student.ID)
}

// AssignClass moves the student to a new class; the repository deactivates
// any prior active enrollment inside the same transaction.
func (s *studentService) AssignClass(ctx context.Context, studentID uint, req dto.AssignClassRequest, actor Actor) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	if _, err := s.repo.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}
	if _, err := s.classes.GetByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrClassNotFound
		}
		return dto.StudentResponse{}, err
	}

	if _, err := s.repo.AssignClass(ctx, studentID, req.ClassID, actor.ID); err != nil {
		s.logger.Error().Err(err).Uint("student_id", studentID).Uint("class_id", req.ClassID).Msg("failed to assign class")
		return dto.StudentResponse{}, err
	}

	return s.Get(ctx, studentID)
}

func (s *studentService) sanitizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	sanitized := strings.TrimSpace(s.sanitizer.Sanitize(*value))
	if sanitized == "" {
		return nil
	}
	return &sanitized
}

func encodeProfileImages(urls []string) (datatypes.JSON, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(urls)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}

package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/repository"
)

// Fee ledger sentinel errors.
var (
	ErrLedgerStudentNotFound      = errors.New("student not found")
	ErrLedgerFeeStructureNotFound = errors.New("fee structure not found")
)

// Actor identifies the authenticated staff member performing an operation.
type Actor struct {
	ID   uint
	Role string
}

// FeeLedgerService is the reconciliation core: it derives per-student payment
// status from fee structures and collections, and owns the one transactional
// payment write path. Ledger state is never stored; every read recomputes it.
type FeeLedgerService interface {
	GetStudentPaymentStatus(ctx context.Context, studentID uint) (dto.PaymentStatus, error)
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, actor Actor) (dto.FeeCollectionResponse, error)
	ListPayments(ctx context.Context, studentID *uint) ([]dto.FeeCollectionResponse, error)
}

type feeLedgerService struct {
	students    repository.StudentRepository
	fees        repository.FeeStructureRepository
	collections repository.FeeCollectionRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	now         func() time.Time
	logger      zerolog.Logger
}

// NewFeeLedgerService constructs the fee ledger service.
func NewFeeLedgerService(
	students repository.StudentRepository,
	fees repository.FeeStructureRepository,
	collections repository.FeeCollectionRepository,
	validator *validator.Validate,
	logger zerolog.Logger,
) FeeLedgerService {
	return &feeLedgerService{
		students:    students,
		fees:        fees,
		collections: collections,
		validator:   validator,
		sanitizer:   bluemonday.StrictPolicy(),
		now:         time.Now,
		logger:      logger.With().Str("component", "fee_ledger_service").Logger(),
	}
}

// ApplicableFees selects the fee structures bound to the student's currently
// active enrollment, matched by class name + batch name. A student with no
// active enrollment has no applicable fees.
func ApplicableFees(student models.Student, fees []models.FeeStructure) []models.FeeStructure {
	enrollment := student.ActiveEnrollment()
	if enrollment == nil {
		return nil
	}

	applicable := make([]models.FeeStructure, 0, len(fees))
	for _, fee := range fees {
		if fee.Class.Name == enrollment.Class.Name && fee.Class.Batch.Name == enrollment.Class.Batch.Name {
			applicable = append(applicable, fee)
		}
	}
	return applicable
}

// TotalPaid sums the student's PAID collections. PENDING and FAILED rows do
// not count toward the ledger.
func TotalPaid(collections []models.FeeCollection) float64 {
	var total float64
	for _, collection := range collections {
		if collection.Status == models.PaymentStatusPaid {
			total += collection.AmountPaid
		}
	}
	return total
}

// ComputePaymentStatus is the ledger projection: a pure function of the
// student's enrollments, the candidate fee structures and the clock.
// Status precedence: no-class, no-fees, paid, overdue, pending.
// Outstanding is floored at zero so overpayment never goes negative.
func ComputePaymentStatus(student models.Student, fees []models.FeeStructure, now time.Time) dto.PaymentStatus {
	if student.ActiveEnrollment() == nil {
		return dto.PaymentStatus{Status: dto.FeeStatusNoClass}
	}

	applicable := ApplicableFees(student, fees)
	if len(applicable) == 0 {
		return dto.PaymentStatus{Status: dto.FeeStatusNoFees}
	}

	var totalDue float64
	overdue := false
	for _, fee := range applicable {
		totalDue += fee.Amount
		if fee.IsOverdue(now) {
			overdue = true
		}
	}

	totalPaid := TotalPaid(student.FeeCollections)
	status := dto.PaymentStatus{
		TotalDue:    totalDue,
		TotalPaid:   totalPaid,
		Outstanding: math.Max(0, totalDue-totalPaid),
	}

	switch {
	case totalPaid >= totalDue:
		status.Status = dto.FeeStatusPaid
	case overdue:
		status.Status = dto.FeeStatusOverdue
	default:
		status.Status = dto.FeeStatusPending
	}
	return status
}

func (s *feeLedgerService) GetStudentPaymentStatus(ctx context.Context, studentID uint) (dto.PaymentStatus, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentStatus{}, ErrLedgerStudentNotFound
		}
		return dto.PaymentStatus{}, err
	}

	fees, err := s.feesForStudent(ctx, student)
	if err != nil {
		return dto.PaymentStatus{}, err
	}

	return ComputePaymentStatus(student, fees, s.now()), nil
}

func (s *feeLedgerService) feesForStudent(ctx context.Context, student models.Student) ([]models.FeeStructure, error) {
	enrollment := student.ActiveEnrollment()
	if enrollment == nil {
		return nil, nil
	}
	return s.fees.ListByClassIDs(ctx, []uint{enrollment.ClassID})
}

func (s *feeLedgerService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, actor Actor) (dto.FeeCollectionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.FeeCollectionResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeCollectionResponse{}, ErrLedgerStudentNotFound
		}
		return dto.FeeCollectionResponse{}, err
	}

	var remarks *string
	if trimmed := strings.TrimSpace(s.sanitizer.Sanitize(req.Remarks)); trimmed != "" {
		remarks = &trimmed
	}

	record := repository.PaymentRecord{
		StudentID:       req.StudentID,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		Remarks:         remarks,
		FeeStructureIDs: req.FeeStructureIDs,
		CollectedByID:   actor.ID,
		PaymentDate:     s.now(),
	}

	collection, err := s.collections.RecordPayment(ctx, record)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeCollectionResponse{}, ErrLedgerFeeStructureNotFound
		}
		s.logger.Error().Err(err).Uint("student_id", req.StudentID).Msg("failed to record payment")
		return dto.FeeCollectionResponse{}, err
	}

	s.logger.Info().
		Uint("student_id", req.StudentID).
		Float64("amount", req.Amount).
		Str("method", req.PaymentMethod).
		Msg("payment recorded")

	return dto.NewFeeCollectionResponse(collection), nil
}

func (s *feeLedgerService) ListPayments(ctx context.Context, studentID *uint) ([]dto.FeeCollectionResponse, error) {
	var collections []models.FeeCollection
	var err error
	if studentID != nil {
		collections, err = s.collections.ListByStudent(ctx, *studentID)
	} else {
		collections, err = s.collections.ListRecent(ctx, 100)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]dto.FeeCollectionResponse, 0, len(collections))
	for _, collection := range collections {
		responses = append(responses, dto.NewFeeCollectionResponse(collection))
	}
	return responses, nil
}

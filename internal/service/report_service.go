package service

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/repository"
)

// Number of recent payments annotated onto the fee report.
const reportRecentPayments = 10

// Label shown when a payment's student has no active enrollment.
const noClassLabel = "No Class"

// ReportService rolls the fee ledger up by (class, batch) for the reporting
// dashboards. Totals are recomputed from the store on every call.
type ReportService interface {
	GetClassWiseReport(ctx context.Context, filter dto.ReportFilter) (dto.FeeReportResponse, error)
}

type reportService struct {
	students    repository.StudentRepository
	fees        repository.FeeStructureRepository
	collections repository.FeeCollectionRepository
	logger      zerolog.Logger
}

// NewReportService constructs the report service.
func NewReportService(
	students repository.StudentRepository,
	fees repository.FeeStructureRepository,
	collections repository.FeeCollectionRepository,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		students:    students,
		fees:        fees,
		collections: collections,
		logger:      logger.With().Str("component", "report_service").Logger(),
	}
}

type classGroup struct {
	className string
	batchName string
	students  []models.Student
}

func (s *reportService) GetClassWiseReport(ctx context.Context, filter dto.ReportFilter) (dto.FeeReportResponse, error) {
	students, err := s.students.List(ctx, repository.StudentFilter{
		BatchID: filter.BatchID,
		ClassID: filter.ClassID,
		Search:  filter.Search,
	})
	if err != nil {
		return dto.FeeReportResponse{}, err
	}

	// Group students by their active enrollment. Students without one are
	// excluded from group totals but still counted in the headcount.
	groups := make(map[string]*classGroup)
	classIDs := make([]uint, 0)
	seenClasses := make(map[uint]struct{})
	for _, student := range students {
		enrollment := student.ActiveEnrollment()
		if enrollment == nil {
			continue
		}

		key := enrollment.Class.Name + "\x00" + enrollment.Class.Batch.Name
		group, ok := groups[key]
		if !ok {
			group = &classGroup{
				className: enrollment.Class.Name,
				batchName: enrollment.Class.Batch.Name,
			}
			groups[key] = group
		}
		group.students = append(group.students, student)

		if _, ok := seenClasses[enrollment.ClassID]; !ok {
			seenClasses[enrollment.ClassID] = struct{}{}
			classIDs = append(classIDs, enrollment.ClassID)
		}
	}

	fees, err := s.fees.ListByClassIDs(ctx, classIDs)
	if err != nil {
		return dto.FeeReportResponse{}, err
	}

	var totalDue, totalCollected float64
	classWise := make([]dto.ClassWiseReport, 0, len(groups))
	for _, group := range groups {
		var feeTotal float64
		for _, fee := range fees {
			if fee.Class.Name == group.className && fee.Class.Batch.Name == group.batchName {
				feeTotal += fee.Amount
			}
		}

		groupDue := feeTotal * float64(len(group.students))
		var groupCollected float64
		for _, student := range group.students {
			groupCollected += TotalPaid(student.FeeCollections)
		}

		totalDue += groupDue
		totalCollected += groupCollected

		classWise = append(classWise, dto.ClassWiseReport{
			ClassName:            group.className,
			BatchName:            group.batchName,
			TotalStudents:        len(group.students),
			TotalDue:             groupDue,
			TotalCollected:       groupCollected,
			Outstanding:          math.Max(0, groupDue-groupCollected),
			CollectionPercentage: collectionPercentage(groupCollected, groupDue),
		})
	}

	sort.Slice(classWise, func(i, j int) bool {
		if classWise[i].BatchName != classWise[j].BatchName {
			return classWise[i].BatchName < classWise[j].BatchName
		}
		return classWise[i].ClassName < classWise[j].ClassName
	})

	recent, err := s.recentPayments(ctx)
	if err != nil {
		return dto.FeeReportResponse{}, err
	}

	return dto.FeeReportResponse{
		Summary: dto.ReportSummary{
			TotalStudents:        len(students),
			TotalDue:             totalDue,
			TotalCollected:       totalCollected,
			OutstandingAmount:    math.Max(0, totalDue-totalCollected),
			CollectionPercentage: collectionPercentage(totalCollected, totalDue),
		},
		ClassWiseData:  classWise,
		RecentPayments: recent,
	}, nil
}

func (s *reportService) recentPayments(ctx context.Context) ([]dto.RecentPayment, error) {
	collections, err := s.collections.ListRecent(ctx, reportRecentPayments)
	if err != nil {
		return nil, err
	}

	payments := make([]dto.RecentPayment, 0, len(collections))
	for _, collection := range collections {
		className := noClassLabel
		if enrollment := collection.Student.ActiveEnrollment(); enrollment != nil {
			className = enrollment.Class.Name
		}

		payments = append(payments, dto.RecentPayment{
			ID:            collection.ID,
			StudentName:   collection.Student.FullName(),
			ClassName:     className,
			Amount:        collection.AmountPaid,
			PaymentDate:   collection.PaymentDate,
			PaymentMethod: collection.PaymentMethod,
			Status:        collection.Status,
		})
	}
	return payments, nil
}

// collectionPercentage is collected/due*100, zero when nothing is due. It is
// deliberately not capped: overpayment yields more than 100%.
func collectionPercentage(collected, due float64) float64 {
	if due <= 0 {
		return 0
	}
	return collected / due * 100
}

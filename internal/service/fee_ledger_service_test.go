package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/repository"
)

func TestComputePaymentStatusPrecedence(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pastDue := now.AddDate(0, -1, 0)
	futureDue := now.AddDate(0, 1, 0)

	class := models.Class{Name: "Grade 5", Batch: models.Batch{Name: "2025-2026"}}
	enrolled := models.Student{
		Enrollments: []models.StudentClassEnrollment{{IsActive: true, ClassID: 1, Class: class}},
	}
	fee := func(amount float64, due *time.Time) models.FeeStructure {
		return models.FeeStructure{Amount: amount, DueDate: due, Class: class}
	}
	paid := func(amount float64, status string) models.FeeCollection {
		return models.FeeCollection{AmountPaid: amount, Status: status}
	}

	tests := []struct {
		name        string
		student     models.Student
		fees        []models.FeeStructure
		collections []models.FeeCollection
		wantStatus  string
		wantDue     float64
		wantPaid    float64
		wantOutst   float64
	}{
		{
			name:       "no active enrollment",
			student:    models.Student{},
			fees:       []models.FeeStructure{fee(1000, nil)},
			wantStatus: dto.FeeStatusNoClass,
		},
		{
			name:       "enrolled but no applicable fees",
			student:    enrolled,
			wantStatus: dto.FeeStatusNoFees,
		},
		{
			name:        "fully paid",
			student:     enrolled,
			fees:        []models.FeeStructure{fee(1000, &pastDue)},
			collections: []models.FeeCollection{paid(1000, models.PaymentStatusPaid)},
			wantStatus:  dto.FeeStatusPaid,
			wantDue:     1000,
			wantPaid:    1000,
		},
		{
			name:       "unpaid past due date",
			student:    enrolled,
			fees:       []models.FeeStructure{fee(1000, &pastDue)},
			wantStatus: dto.FeeStatusOverdue,
			wantDue:    1000,
			wantOutst:  1000,
		},
		{
			name:        "partially paid before due date",
			student:     enrolled,
			fees:        []models.FeeStructure{fee(1000, &futureDue)},
			collections: []models.FeeCollection{paid(400, models.PaymentStatusPaid)},
			wantStatus:  dto.FeeStatusPending,
			wantDue:     1000,
			wantPaid:    400,
			wantOutst:   600,
		},
		{
			name:    "paid wins over overdue",
			student: enrolled,
			fees:    []models.FeeStructure{fee(500, &pastDue), fee(500, &futureDue)},
			collections: []models.FeeCollection{
				paid(600, models.PaymentStatusPaid),
				paid(400, models.PaymentStatusPaid),
			},
			wantStatus: dto.FeeStatusPaid,
			wantDue:    1000,
			wantPaid:   1000,
		},
		{
			name:        "pending and failed collections do not count",
			student:     enrolled,
			fees:        []models.FeeStructure{fee(1000, &futureDue)},
			collections: []models.FeeCollection{paid(1000, models.PaymentStatusPending), paid(1000, models.PaymentStatusFailed)},
			wantStatus:  dto.FeeStatusPending,
			wantDue:     1000,
			wantOutst:   1000,
		},
		{
			name:        "overpayment floors outstanding at zero",
			student:     enrolled,
			fees:        []models.FeeStructure{fee(1000, &futureDue)},
			collections: []models.FeeCollection{paid(1500, models.PaymentStatusPaid)},
			wantStatus:  dto.FeeStatusPaid,
			wantDue:     1000,
			wantPaid:    1500,
			wantOutst:   0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			student := tc.student
			student.FeeCollections = tc.collections

			status := ComputePaymentStatus(student, tc.fees, now)
			require.Equal(t, tc.wantStatus, status.Status)
			require.Equal(t, tc.wantDue, status.TotalDue)
			require.Equal(t, tc.wantPaid, status.TotalPaid)
			require.Equal(t, tc.wantOutst, status.Outstanding)
		})
	}
}

func TestApplicableFeesMatchesClassAndBatchNames(t *testing.T) {
	classA := models.Class{Name: "Grade 5", Batch: models.Batch{Name: "2025-2026"}}
	classB := models.Class{Name: "Grade 5", Batch: models.Batch{Name: "2024-2025"}}

	student := models.Student{
		Enrollments: []models.StudentClassEnrollment{{IsActive: true, Class: classA}},
	}
	fees := []models.FeeStructure{
		{Name: "Tuition", Amount: 1000, Class: classA},
		{Name: "Tuition", Amount: 900, Class: classB},
	}

	applicable := ApplicableFees(student, fees)
	require.Len(t, applicable, 1)
	require.Equal(t, float64(1000), applicable[0].Amount)
}

func TestRecordPaymentLifecycle(t *testing.T) {
	db := setupServiceDB(t)
	students := repository.NewStudentRepository(db)
	fees := repository.NewFeeStructureRepository(db)
	collections := repository.NewFeeCollectionRepository(db)

	svc := NewFeeLedgerService(students, fees, collections, validator.New(), testLogger()).(*feeLedgerService)
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	batch := seedBatch(t, db, "2025-2026", 2025)
	class := seedClass(t, db, "Grade 5", batch.ID)
	student := seedStudent(t, db, "ADM-001", "Asha", "Rao", &class.ID)
	tuition := seedFeeStructure(t, db, "Tuition", 1000, class.ID)

	ctx := context.Background()

	status, err := svc.GetStudentPaymentStatus(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, dto.FeeStatusPending, status.Status)
	require.Equal(t, float64(1000), status.TotalDue)
	require.Equal(t, float64(0), status.TotalPaid)
	require.Equal(t, float64(1000), status.Outstanding)

	payment, err := svc.RecordPayment(ctx, dto.RecordPaymentRequest{
		StudentID:       student.ID,
		Amount:          1000,
		PaymentMethod:   models.PaymentMethodCash,
		FeeStructureIDs: []uint{tuition.ID},
	}, Actor{ID: 1, Role: models.RoleStaff})
	require.NoError(t, err)
	require.Equal(t, "Asha Rao", payment.StudentName)
	require.Equal(t, models.PaymentStatusPaid, payment.Status)
	require.Equal(t, []uint{tuition.ID}, payment.FeeStructureIDs)

	status, err = svc.GetStudentPaymentStatus(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, dto.FeeStatusPaid, status.Status)
	require.Equal(t, float64(1000), status.TotalPaid)
	require.Equal(t, float64(0), status.Outstanding)

	// Overpayment stays legal and never drives outstanding negative.
	_, err = svc.RecordPayment(ctx, dto.RecordPaymentRequest{
		StudentID:       student.ID,
		Amount:          500,
		PaymentMethod:   models.PaymentMethodUPI,
		FeeStructureIDs: []uint{tuition.ID},
	}, Actor{ID: 1, Role: models.RoleStaff})
	require.NoError(t, err)

	status, err = svc.GetStudentPaymentStatus(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, dto.FeeStatusPaid, status.Status)
	require.Equal(t, float64(1500), status.TotalPaid)
	require.Equal(t, float64(0), status.Outstanding)
}

func TestRecordPaymentUnknownTargets(t *testing.T) {
	db := setupServiceDB(t)
	students := repository.NewStudentRepository(db)
	fees := repository.NewFeeStructureRepository(db)
	collections := repository.NewFeeCollectionRepository(db)
	svc := NewFeeLedgerService(students, fees, collections, validator.New(), testLogger())

	batch := seedBatch(t, db, "2025-2026", 2025)
	class := seedClass(t, db, "Grade 5", batch.ID)
	student := seedStudent(t, db, "ADM-002", "Ravi", "Kumar", &class.ID)

	ctx := context.Background()

	_, err := svc.RecordPayment(ctx, dto.RecordPaymentRequest{
		StudentID:       999,
		Amount:          100,
		PaymentMethod:   models.PaymentMethodCash,
		FeeStructureIDs: []uint{1},
	}, Actor{ID: 1})
	require.ErrorIs(t, err, ErrLedgerStudentNotFound)

	_, err = svc.RecordPayment(ctx, dto.RecordPaymentRequest{
		StudentID:       student.ID,
		Amount:          100,
		PaymentMethod:   models.PaymentMethodCash,
		FeeStructureIDs: []uint{999},
	}, Actor{ID: 1})
	require.ErrorIs(t, err, ErrLedgerFeeStructureNotFound)
}

func TestRecordPaymentSanitizesRemarks(t *testing.T) {
	db := setupServiceDB(t)
	students := repository.NewStudentRepository(db)
	fees := repository.NewFeeStructureRepository(db)
	collections := repository.NewFeeCollectionRepository(db)
	svc := NewFeeLedgerService(students, fees, collections, validator.New(), testLogger())

	batch := seedBatch(t, db, "2025-2026", 2025)
	class := seedClass(t, db, "Grade 5", batch.ID)
	student := seedStudent(t, db, "ADM-003", "Meera", "Shah", &class.ID)
	tuition := seedFeeStructure(t, db, "Tuition", 1000, class.ID)

	payment, err := svc.RecordPayment(context.Background(), dto.RecordPaymentRequest{
		StudentID:       student.ID,
		Amount:          200,
		PaymentMethod:   models.PaymentMethodCard,
		Remarks:         "<script>alert(1)</script>first installment",
		FeeStructureIDs: []uint{tuition.ID},
	}, Actor{ID: 1})
	require.NoError(t, err)
	require.NotNil(t, payment.Remarks)
	require.Equal(t, "first installment", *payment.Remarks)
}

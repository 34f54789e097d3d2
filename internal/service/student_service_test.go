package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/repository"
)

func newStudentService(db *gorm.DB) StudentService {
	return NewStudentService(
		repository.NewStudentRepository(db),
		repository.NewClassRepository(db),
		repository.NewFeeStructureRepository(db),
		validator.New(),
		testLogger(),
	)
}

func TestCreateStudentEnrollsAndReportsStatus(t *testing.T) {
	db := setupServiceDB(t)
	svc := newStudentService(db)

	batch := seedBatch(t, db, "2025-2026", 2025)
	class := seedClass(t, db, "Grade 5", batch.ID)
	seedFeeStructure(t, db, "Tuition", 1000, class.ID)

	created, err := svc.Create(context.Background(), dto.StudentCreateRequest{
		AdmissionNumber: "  ADM-801  ",
		FirstName:       "Asha",
		LastName:        "Rao",
		ClassID:         &class.ID,
	}, Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	require.Equal(t, "ADM-801", created.AdmissionNumber)
	require.Len(t, created.Enrollments, 1)
	require.Equal(t, "Grade 5", created.Enrollments[0].ClassName)
	require.True(t, created.Enrollments[0].IsActive)

	require.NotNil(t, created.PaymentStatus)
	require.Equal(t, float64(1000), created.PaymentStatus.TotalDue)
	require.Equal(t, float64(1000), created.PaymentStatus.Outstanding)
}

func TestCreateStudentRejectsDuplicateAdmissionNumber(t *testing.T) {
	db := setupServiceDB(t)
	svc := newStudentService(db)

	seedStudent(t, db, "ADM-802", "Asha", "Rao", nil)

	_, err := svc.Create(context.Background(), dto.StudentCreateRequest{
		AdmissionNumber: "ADM-802",
		FirstName:       "Rahul",
		LastName:        "Mehta",
	}, Actor{ID: 1})
	require.ErrorIs(t, err, ErrAdmissionNumberTaken)
}

func TestCreateStudentRejectsUnknownClass(t *testing.T) {
	db := setupServiceDB(t)
	svc := newStudentService(db)

	missing := uint(999)
	_, err := svc.Create(context.Background(), dto.StudentCreateRequest{
		AdmissionNumber: "ADM-803",
		FirstName:       "Asha",
		LastName:        "Rao",
		ClassID:         &missing,
	}, Actor{ID: 1})
	require.ErrorIs(t, err, ErrClassNotFound)

	// The failed request must not leave a student behind.
	var count int64
	require.NoError(t, db.Model(&models.Student{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAssignClassKeepsSingleActiveEnrollment(t *testing.T) {
	db := setupServiceDB(t)
	svc := newStudentService(db)

	batch := seedBatch(t, db, "2025-2026", 2025)
	gradeFive := seedClass(t, db, "Grade 5", batch.ID)
	gradeSix := seedClass(t, db, "Grade 6", batch.ID)
	student := seedStudent(t, db, "ADM-804", "Asha", "Rao", &gradeFive.ID)

	moved, err := svc.AssignClass(context.Background(), student.ID, dto.AssignClassRequest{ClassID: gradeSix.ID}, Actor{ID: 1})
	require.NoError(t, err)

	require.Len(t, moved.Enrollments, 2)
	active := 0
	for _, enrollment := range moved.Enrollments {
		if enrollment.IsActive {
			active++
			require.Equal(t, gradeSix.ID, enrollment.ClassID)
		}
	}
	require.Equal(t, 1, active)
}

func TestAssignClassUnknownTargets(t *testing.T) {
	db := setupServiceDB(t)
	svc := newStudentService(db)

	batch := seedBatch(t, db, "2025-2026", 2025)
	class := seedClass(t, db, "Grade 5", batch.ID)
	student := seedStudent(t, db, "ADM-805", "Asha", "Rao", nil)

	_, err := svc.AssignClass(context.Background(), 999, dto.AssignClassRequest{ClassID: class.ID}, Actor{ID: 1})
	require.ErrorIs(t, err, ErrStudentNotFound)

	_, err = svc.AssignClass(context.Background(), student.ID, dto.AssignClassRequest{ClassID: 999}, Actor{ID: 1})
	require.ErrorIs(t, err, ErrClassNotFound)
}

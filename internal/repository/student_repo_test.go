package repository

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

func TestCreateWithEnrollmentWritesAuditTrail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	batch := createBatch(t, db, "2025-2026", 2025)
	class := createClass(t, db, "Grade 5", batch.ID)

	student := models.Student{
		AdmissionNumber: "ADM-601",
		FirstName:       "Asha",
		LastName:        "Rao",
		IsActive:        true,
	}
	require.NoError(t, repo.CreateWithEnrollment(context.Background(), &student, &class.ID, 7))
	require.NotZero(t, student.ID)

	var enrollments []models.StudentClassEnrollment
	require.NoError(t, db.Where("student_id = ?", student.ID).Find(&enrollments).Error)
	require.Len(t, enrollments, 1)
	require.Equal(t, class.ID, enrollments[0].ClassID)
	require.True(t, enrollments[0].IsActive)

	var logs []models.StudentLog
	require.NoError(t, db.Where("student_id = ?", student.ID).Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	require.Equal(t, models.LogFieldStudent, logs[0].Field)
	require.Equal(t, models.LogActionCreate, logs[0].Action)
	require.Equal(t, uint(7), logs[0].UserID)
	require.Equal(t, models.LogFieldClassAssignment, logs[1].Field)
	require.NotNil(t, logs[1].NewValue)
	require.Equal(t, strconv.FormatUint(uint64(class.ID), 10), *logs[1].NewValue)
}

func TestCreateWithEnrollmentWithoutClass(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	student := models.Student{
		AdmissionNumber: "ADM-602",
		FirstName:       "Rahul",
		LastName:        "Mehta",
		IsActive:        true,
	}
	require.NoError(t, repo.CreateWithEnrollment(context.Background(), &student, nil, 7))

	var enrollmentCount int64
	require.NoError(t, db.Model(&models.StudentClassEnrollment{}).Where("student_id = ?", student.ID).Count(&enrollmentCount).Error)
	require.Zero(t, enrollmentCount)

	var logCount int64
	require.NoError(t, db.Model(&models.StudentLog{}).Where("student_id = ?", student.ID).Count(&logCount).Error)
	require.Equal(t, int64(1), logCount)
}

func TestAssignClassDeactivatesPreviousEnrollment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	batch := createBatch(t, db, "2025-2026", 2025)
	gradeFive := createClass(t, db, "Grade 5", batch.ID)
	gradeSix := createClass(t, db, "Grade 6", batch.ID)
	student := createStudent(t, db, "ADM-604")

	first, err := repo.AssignClass(context.Background(), student.ID, gradeFive.ID, 7)
	require.NoError(t, err)
	require.True(t, first.IsActive)

	second, err := repo.AssignClass(context.Background(), student.ID, gradeSix.ID, 7)
	require.NoError(t, err)
	require.Equal(t, gradeSix.ID, second.ClassID)

	var active []models.StudentClassEnrollment
	require.NoError(t, db.Where("student_id = ? AND is_active = ?", student.ID, true).Find(&active).Error)
	require.Len(t, active, 1)
	require.Equal(t, gradeSix.ID, active[0].ClassID)

	var logs []models.StudentLog
	require.NoError(t, db.Where("student_id = ? AND field = ?", student.ID, models.LogFieldClassAssignment).Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 2)

	// First assignment has no previous class to record.
	require.Equal(t, models.LogActionCreate, logs[0].Action)
	require.Nil(t, logs[0].OldValue)

	require.Equal(t, models.LogActionUpdate, logs[1].Action)
	require.NotNil(t, logs[1].OldValue)
	require.Equal(t, strconv.FormatUint(uint64(gradeFive.ID), 10), *logs[1].OldValue)
	require.Equal(t, strconv.FormatUint(uint64(gradeSix.ID), 10), *logs[1].NewValue)
}

func TestListFiltersByClassAndSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	batch := createBatch(t, db, "2025-2026", 2025)
	gradeFive := createClass(t, db, "Grade 5", batch.ID)
	gradeSix := createClass(t, db, "Grade 6", batch.ID)

	asha := createStudent(t, db, "ADM-605")
	_, err := repo.AssignClass(context.Background(), asha.ID, gradeFive.ID, 1)
	require.NoError(t, err)

	other := models.Student{AdmissionNumber: "ADM-606", FirstName: "Rahul", LastName: "Mehta", IsActive: true}
	require.NoError(t, db.Create(&other).Error)
	_, err = repo.AssignClass(context.Background(), other.ID, gradeSix.ID, 1)
	require.NoError(t, err)

	inFive, err := repo.List(context.Background(), StudentFilter{ClassID: &gradeFive.ID})
	require.NoError(t, err)
	require.Len(t, inFive, 1)
	require.Equal(t, "ADM-605", inFive[0].AdmissionNumber)

	found, err := repo.List(context.Background(), StudentFilter{Search: "rahul"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "ADM-606", found[0].AdmissionNumber)
}

package service

import (
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Batch{},
		&models.Class{},
		&models.Subject{},
		&models.Student{},
		&models.StudentClassEnrollment{},
		&models.FeeStructure{},
		&models.FeeCollection{},
		&models.StudentLog{},
	))
	return db
}

func seedBatch(t *testing.T, db *gorm.DB, name string, startYear int) models.Batch {
	t.Helper()
	batch := models.Batch{Name: name, StartYear: startYear, EndYear: startYear + 1, IsActive: true}
	require.NoError(t, db.Create(&batch).Error)
	return batch
}

func seedClass(t *testing.T, db *gorm.DB, name string, batchID uint) models.Class {
	t.Helper()
	class := models.Class{Name: name, IsActive: true, BatchID: batchID}
	require.NoError(t, db.Create(&class).Error)
	return class
}

func seedStudent(t *testing.T, db *gorm.DB, admissionNumber, firstName, lastName string, classID *uint) models.Student {
	t.Helper()
	student := models.Student{
		AdmissionNumber: admissionNumber,
		FirstName:       firstName,
		LastName:        lastName,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&student).Error)
	if classID != nil {
		enrollment := models.StudentClassEnrollment{StudentID: student.ID, ClassID: *classID, IsActive: true}
		require.NoError(t, db.Create(&enrollment).Error)
	}
	return student
}

func seedFeeStructure(t *testing.T, db *gorm.DB, name string, amount float64, classID uint) models.FeeStructure {
	t.Helper()
	fee := models.FeeStructure{Name: name, Amount: amount, Type: models.FeeTypeAnnual, IsActive: true, ClassID: classID}
	require.NoError(t, db.Create(&fee).Error)
	return fee
}

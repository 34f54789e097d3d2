package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
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

func createBatch(t *testing.T, db *gorm.DB, name string, startYear int) models.Batch {
	t.Helper()
	batch := models.Batch{Name: name, StartYear: startYear, EndYear: startYear + 1, IsActive: true}
	require.NoError(t, db.Create(&batch).Error)
	return batch
}

func createClass(t *testing.T, db *gorm.DB, name string, batchID uint) models.Class {
	t.Helper()
	class := models.Class{Name: name, IsActive: true, BatchID: batchID}
	require.NoError(t, db.Create(&class).Error)
	return class
}

func createStudent(t *testing.T, db *gorm.DB, admissionNumber string) models.Student {
	t.Helper()
	student := models.Student{
		AdmissionNumber: admissionNumber,
		FirstName:       "Asha",
		LastName:        "Rao",
		IsActive:        true,
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func createFeeStructure(t *testing.T, db *gorm.DB, name string, amount float64, classID uint) models.FeeStructure {
	t.Helper()
	fee := models.FeeStructure{
		Name:     name,
		Amount:   amount,
		Type:     models.FeeTypeAnnual,
		IsActive: true,
		ClassID:  classID,
	}
	require.NoError(t, db.Create(&fee).Error)
	return fee
}

package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/repository"
)

func TestImportClassesSkipsDuplicates(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewClassService(repository.NewClassRepository(db), repository.NewBatchRepository(db), validator.New(), testLogger())

	source := seedBatch(t, db, "2024-2025", 2024)
	target := seedBatch(t, db, "2025-2026", 2025)

	gradeFive := seedClass(t, db, "Grade 5", source.ID)
	gradeSix := seedClass(t, db, "Grade 6", source.ID)
	// Grade 6 already exists in the target batch.
	seedClass(t, db, "Grade 6", target.ID)

	result, err := svc.Import(context.Background(), dto.ImportClassesRequest{
		SourceBatchID: source.ID,
		TargetBatchID: target.ID,
		ClassIDs:      []uint{gradeFive.ID, gradeSix.ID},
	}, Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	require.Equal(t, 1, result.ImportedCount)
	require.Equal(t, 1, result.SkippedCount)
	require.Equal(t, "Grade 5", result.Imported[0].Name)
	require.Equal(t, target.ID, result.Imported[0].BatchID)
	require.Equal(t, "Grade 6", result.Skipped[0].Name)
	require.Equal(t, "Already exists", result.Skipped[0].Reason)
}

func TestImportClassesRejectsEmptySelection(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewClassService(repository.NewClassRepository(db), repository.NewBatchRepository(db), validator.New(), testLogger())

	source := seedBatch(t, db, "2024-2025", 2024)
	target := seedBatch(t, db, "2025-2026", 2025)
	// The requested IDs do not belong to the source batch.
	other := seedClass(t, db, "Grade 5", target.ID)

	_, err := svc.Import(context.Background(), dto.ImportClassesRequest{
		SourceBatchID: source.ID,
		TargetBatchID: target.ID,
		ClassIDs:      []uint{other.ID},
	}, Actor{ID: 1})
	require.ErrorIs(t, err, ErrImportNoClasses)
}

func TestImportClassesUnknownBatch(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewClassService(repository.NewClassRepository(db), repository.NewBatchRepository(db), validator.New(), testLogger())

	source := seedBatch(t, db, "2024-2025", 2024)
	class := seedClass(t, db, "Grade 5", source.ID)

	_, err := svc.Import(context.Background(), dto.ImportClassesRequest{
		SourceBatchID: source.ID,
		TargetBatchID: 999,
		ClassIDs:      []uint{class.ID},
	}, Actor{ID: 1})
	require.ErrorIs(t, err, ErrBatchNotFound)
}

func TestCreateClassRejectsDuplicateNameSectionBatch(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewClassService(repository.NewClassRepository(db), repository.NewBatchRepository(db), validator.New(), testLogger())

	batch := seedBatch(t, db, "2025-2026", 2025)
	section := "A"

	_, err := svc.Create(context.Background(), dto.ClassCreateRequest{
		Name:    "Grade 5",
		Section: &section,
		BatchID: batch.ID,
	}, Actor{ID: 1})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.ClassCreateRequest{
		Name:    "Grade 5",
		Section: &section,
		BatchID: batch.ID,
	}, Actor{ID: 1})
	require.ErrorIs(t, err, ErrClassExists)

	// Same name in another section is fine.
	sectionB := "B"
	_, err = svc.Create(context.Background(), dto.ClassCreateRequest{
		Name:    "Grade 5",
		Section: &sectionB,
		BatchID: batch.ID,
	}, Actor{ID: 1})
	require.NoError(t, err)
}

func TestDeleteClassGuardedByDependents(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewClassService(repository.NewClassRepository(db), repository.NewBatchRepository(db), validator.New(), testLogger())

	batch := seedBatch(t, db, "2025-2026", 2025)
	class := seedClass(t, db, "Grade 5", batch.ID)

	subject := models.Subject{Name: "Maths", Type: models.SubjectTypeCore, IsActive: true, ClassID: class.ID}
	require.NoError(t, db.Create(&subject).Error)

	err := svc.Delete(context.Background(), class.ID)
	require.ErrorIs(t, err, ErrClassHasSubjects)

	require.NoError(t, db.Delete(&subject).Error)
	seedStudent(t, db, "ADM-401", "Asha", "Rao", &class.ID)

	err = svc.Delete(context.Background(), class.ID)
	require.ErrorIs(t, err, ErrClassHasEnrollments)
}

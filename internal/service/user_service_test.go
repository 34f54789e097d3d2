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

func newUserService(db *gorm.DB) UserService {
	return NewUserService(repository.NewUserRepository(db), validator.New(), testLogger())
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	db := setupServiceDB(t)
	svc := newUserService(db)

	_, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Name:     "Staff One",
		Email:    "staff@school.test",
		Password: "secret123",
		Role:     models.RoleStaff,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.UserCreateRequest{
		Name:     "Staff Two",
		Email:    "staff@school.test",
		Password: "secret123",
		Role:     models.RoleStaff,
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateUserGuardsLastAdmin(t *testing.T) {
	db := setupServiceDB(t)
	svc := newUserService(db)

	admin := seedUser(t, db, "admin@school.test", "secret123", models.RoleAdmin, true)
	actor := Actor{ID: admin.ID + 100, Role: models.RoleAdmin}

	staffRole := models.RoleStaff
	_, err := svc.Update(context.Background(), admin.ID, actor, dto.UserUpdateRequest{Role: &staffRole})
	require.ErrorIs(t, err, ErrLastAdmin)

	inactive := false
	_, err = svc.Update(context.Background(), admin.ID, actor, dto.UserUpdateRequest{IsActive: &inactive})
	require.ErrorIs(t, err, ErrLastAdmin)

	// With a second admin in place the demotion goes through.
	seedUser(t, db, "backup@school.test", "secret123", models.RoleAdmin, true)
	updated, err := svc.Update(context.Background(), admin.ID, actor, dto.UserUpdateRequest{Role: &staffRole})
	require.NoError(t, err)
	require.Equal(t, models.RoleStaff, updated.Role)
}

func TestUpdateUserRejectsSelfRoleChange(t *testing.T) {
	db := setupServiceDB(t)
	svc := newUserService(db)

	admin := seedUser(t, db, "admin@school.test", "secret123", models.RoleAdmin, true)
	seedUser(t, db, "backup@school.test", "secret123", models.RoleAdmin, true)

	staffRole := models.RoleStaff
	_, err := svc.Update(context.Background(), admin.ID, Actor{ID: admin.ID, Role: models.RoleAdmin}, dto.UserUpdateRequest{Role: &staffRole})
	require.ErrorIs(t, err, ErrSelfDemotion)
}

func TestUpdateUserNotFound(t *testing.T) {
	db := setupServiceDB(t)
	svc := newUserService(db)

	name := "Renamed"
	_, err := svc.Update(context.Background(), 999, Actor{ID: 1}, dto.UserUpdateRequest{Name: &name})
	require.ErrorIs(t, err, ErrUserNotFound)
}

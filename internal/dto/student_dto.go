package dto

import (
	"time"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// StudentCreateRequest carries the payload for registering a student. A class
// id may be supplied to enroll the student immediately.
type StudentCreateRequest struct {
	AdmissionNumber string   `json:"admission_number" validate:"required,min=1,max=64"`
	FirstName       string   `json:"first_name" validate:"required,min=1,max=128"`
	LastName        string   `json:"last_name" validate:"required,min=1,max=128"`
	DateOfBirth     *string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender          *string  `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Email           *string  `json:"email" validate:"omitempty,email"`
	Phone           *string  `json:"phone" validate:"omitempty,max=32"`
	Address         *string  `json:"address" validate:"omitempty,max=2000"`
	GuardianName    *string  `json:"guardian_name" validate:"omitempty,max=128"`
	GuardianPhone   *string  `json:"guardian_phone" validate:"omitempty,max=32"`
	GuardianEmail   *string  `json:"guardian_email" validate:"omitempty,email"`
	ProfileImages   []string `json:"profile_images" validate:"omitempty,max=5,dive,max=512"`
	ClassID         *uint    `json:"class_id"`
}

// StudentListRequest defines filters for listing students.
type StudentListRequest struct {
	BatchID *uint
	ClassID *uint
	Search  string
}

// AssignClassRequest moves a student into a class, retiring any previous
// active enrollment.
type AssignClassRequest struct {
	ClassID uint `json:"class_id" validate:"required"`
}

// EnrollmentResponse serializes one enrollment row with its class context.
type EnrollmentResponse struct {
	ID        uint      `json:"id"`
	ClassID   uint      `json:"class_id"`
	ClassName string    `json:"class_name"`
	BatchName string    `json:"batch_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentResponse serializes a student with enrollment history and, when the
// ledger has been consulted, the derived payment status.
type StudentResponse struct {
	ID              uint                 `json:"id"`
	AdmissionNumber string               `json:"admission_number"`
	FirstName       string               `json:"first_name"`
	LastName        string               `json:"last_name"`
	DateOfBirth     *time.Time           `json:"date_of_birth"`
	Gender          *string              `json:"gender"`
	Email           *string              `json:"email"`
	Phone           *string              `json:"phone"`
	Address         *string              `json:"address"`
	GuardianName    *string              `json:"guardian_name"`
	GuardianPhone   *string              `json:"guardian_phone"`
	GuardianEmail   *string              `json:"guardian_email"`
	IsActive        bool                 `json:"is_active"`
	Enrollments     []EnrollmentResponse `json:"enrollments"`
	PaymentStatus   *PaymentStatus       `json:"payment_status,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// NewStudentResponse converts a student model with Enrollments.Class.Batch preloaded.
func NewStudentResponse(student models.Student) StudentResponse {
	enrollments := make([]EnrollmentResponse, 0, len(student.Enrollments))
	for _, enrollment := range student.Enrollments {
		enrollments = append(enrollments, EnrollmentResponse{
			ID:        enrollment.ID,
			ClassID:   enrollment.ClassID,
			ClassName: enrollment.Class.DisplayName(),
			BatchName: enrollment.Class.Batch.Name,
			IsActive:  enrollment.IsActive,
			CreatedAt: enrollment.CreatedAt,
		})
	}

	return StudentResponse{
		ID:              student.ID,
		AdmissionNumber: student.AdmissionNumber,
		FirstName:       student.FirstName,
		LastName:        student.LastName,
		DateOfBirth:     student.DateOfBirth,
		Gender:          student.Gender,
		Email:           student.Email,
		Phone:           student.Phone,
		Address:         student.Address,
		GuardianName:    student.GuardianName,
		GuardianPhone:   student.GuardianPhone,
		GuardianEmail:   student.GuardianEmail,
		IsActive:        student.IsActive,
		Enrollments:     enrollments,
		CreatedAt:       student.CreatedAt,
		UpdatedAt:       student.UpdatedAt,
	}
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// MaxProfileImages caps the number of profile image references per student.
const MaxProfileImages = 5

// Student represents an enrolled pupil. The admission number is the immutable,
// globally unique identifier used across the school.
type Student struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AdmissionNumber string         `gorm:"size:64;uniqueIndex;not null" json:"admission_number"`
	FirstName       string         `gorm:"size:128;not null" json:"first_name"`
	LastName        string         `gorm:"size:128;not null" json:"last_name"`
	DateOfBirth     *time.Time     `json:"date_of_birth"`
	Gender          *string        `gorm:"size:16" json:"gender"`
	Email           *string        `gorm:"size:255" json:"email"`
	Phone           *string        `gorm:"size:32" json:"phone"`
	Address         *string        `gorm:"type:text" json:"address"`
	GuardianName    *string        `gorm:"size:128" json:"guardian_name"`
	GuardianPhone   *string        `gorm:"size:32" json:"guardian_phone"`
	GuardianEmail   *string        `gorm:"size:255" json:"guardian_email"`
	ProfileImages   datatypes.JSON `json:"profile_images"`
	IsActive        bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	Enrollments    []StudentClassEnrollment `gorm:"foreignKey:StudentID" json:"enrollments,omitempty"`
	FeeCollections []FeeCollection          `gorm:"foreignKey:StudentID" json:"fee_collections,omitempty"`
}

// FullName joins first and last name for display.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// ActiveEnrollment returns the enrollment flagged as current, or nil when the
// student has no active class. If more than one row is flagged active the
// first one wins; the assignment transaction keeps that situation transient.
func (s Student) ActiveEnrollment() *StudentClassEnrollment {
	for i := range s.Enrollments {
		if s.Enrollments[i].IsActive {
			return &s.Enrollments[i]
		}
	}
	return nil
}

// StudentClassEnrollment links a student to a class. IsActive marks the single
// current enrollment; historical rows stay behind with IsActive=false.
type StudentClassEnrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	ClassID   uint      `gorm:"not null;index" json:"class_id"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Class Class `json:"class,omitempty"`
}

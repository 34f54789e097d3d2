package models

import "time"

// Audit actions recorded in the student log.
const (
	LogActionCreate = "CREATE"
	LogActionUpdate = "UPDATE"
	LogActionDelete = "DELETE"
)

// Well-known audit fields.
const (
	LogFieldStudent         = "student"
	LogFieldClassAssignment = "class_assignment"
	LogFieldFeePayment      = "FeePayment"
)

// StudentLog is an append-only audit entry for a student-affecting mutation.
// Rows are written alongside the mutation they describe and never touched again.
type StudentLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Field     string    `gorm:"size:64;not null" json:"field"`
	OldValue  *string   `gorm:"type:text" json:"old_value"`
	NewValue  *string   `gorm:"type:text" json:"new_value"`
	Action    string    `gorm:"size:16;not null" json:"action"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Student Student `json:"student,omitempty"`
	User    User    `json:"user,omitempty"`
}

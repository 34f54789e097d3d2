package dto

import (
	"time"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// SubjectCreateRequest carries the payload for creating a subject.
type SubjectCreateRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=128"`
	Code    *string `json:"code" validate:"omitempty,max=32"`
	Type    string  `json:"type" validate:"omitempty,oneof=CORE ELECTIVE LANGUAGE ACTIVITY VOCATIONAL"`
	ClassID uint    `json:"class_id" validate:"required"`
}

// SubjectUpdateRequest captures partial update payloads for subjects.
type SubjectUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=128"`
	Code     *string `json:"code" validate:"omitempty,max=32"`
	Type     *string `json:"type" validate:"omitempty,oneof=CORE ELECTIVE LANGUAGE ACTIVITY VOCATIONAL"`
	IsActive *bool   `json:"is_active"`
}

// SubjectResponse serializes a subject with its class and batch context.
type SubjectResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Code      *string   `json:"code"`
	Type      string    `json:"type"`
	IsActive  bool      `json:"is_active"`
	ClassID   uint      `json:"class_id"`
	ClassName string    `json:"class_name"`
	BatchName string    `json:"batch_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSubjectResponse converts a subject model with Class.Batch preloaded.
func NewSubjectResponse(subject models.Subject) SubjectResponse {
	return SubjectResponse{
		ID:        subject.ID,
		Name:      subject.Name,
		Code:      subject.Code,
		Type:      subject.Type,
		IsActive:  subject.IsActive,
		ClassID:   subject.ClassID,
		ClassName: subject.Class.DisplayName(),
		BatchName: subject.Class.Batch.Name,
		CreatedAt: subject.CreatedAt,
		UpdatedAt: subject.UpdatedAt,
	}
}

package dto

import (
	"time"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// ClassCreateRequest carries the payload for creating a class.
type ClassCreateRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=128"`
	Section  *string `json:"section" validate:"omitempty,max=32"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=1"`
	BatchID  uint    `json:"batch_id" validate:"required"`
}

// ClassUpdateRequest captures partial update payloads for classes.
type ClassUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=128"`
	Section  *string `json:"section" validate:"omitempty,max=32"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=1"`
	IsActive *bool   `json:"is_active"`
}

// ClassCounts carries the dependent counts shown alongside a class.
type ClassCounts struct {
	Subjects    int64 `json:"subjects"`
	Enrollments int64 `json:"enrollments"`
}

// ClassResponse serializes a class with its batch name and dependent counts.
type ClassResponse struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	Section   *string     `json:"section"`
	Capacity  *int        `json:"capacity"`
	IsActive  bool        `json:"is_active"`
	BatchID   uint        `json:"batch_id"`
	BatchName string      `json:"batch_name"`
	Counts    ClassCounts `json:"counts"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewClassResponse converts a class model (with Batch preloaded) and its counts.
func NewClassResponse(class models.Class, counts ClassCounts) ClassResponse {
	return ClassResponse{
		ID:        class.ID,
		Name:      class.Name,
		Section:   class.Section,
		Capacity:  class.Capacity,
		IsActive:  class.IsActive,
		BatchID:   class.BatchID,
		BatchName: class.Batch.Name,
		Counts:    counts,
		CreatedAt: class.CreatedAt,
		UpdatedAt: class.UpdatedAt,
	}
}

// ImportClassesRequest asks for classes to be cloned from one batch to another.
type ImportClassesRequest struct {
	SourceBatchID uint   `json:"source_batch_id" validate:"required"`
	TargetBatchID uint   `json:"target_batch_id" validate:"required"`
	ClassIDs      []uint `json:"class_ids" validate:"required,min=1"`
}

// SkippedClass reports why a class was not imported.
type SkippedClass struct {
	Name    string  `json:"name"`
	Section *string `json:"section"`
	Reason  string  `json:"reason"`
}

// ImportClassesResponse summarises a best-effort class import run.
type ImportClassesResponse struct {
	ImportedCount int             `json:"imported_count"`
	SkippedCount  int             `json:"skipped_count"`
	Imported      []ClassResponse `json:"imported"`
	Skipped       []SkippedClass  `json:"skipped"`
}

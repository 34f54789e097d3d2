package dto

import (
	"time"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// BatchCreateRequest carries the payload for creating a batch.
type BatchCreateRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=64"`
	StartYear int    `json:"start_year" validate:"required,min=1900,max=2200"`
	EndYear   int    `json:"end_year" validate:"required,min=1900,max=2200"`
}

// BatchUpdateRequest captures partial update payloads for batches.
type BatchUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=64"`
	StartYear *int    `json:"start_year" validate:"omitempty,min=1900,max=2200"`
	EndYear   *int    `json:"end_year" validate:"omitempty,min=1900,max=2200"`
	IsActive  *bool   `json:"is_active"`
}

// BatchResponse serializes a batch with its dependent class count.
type BatchResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	StartYear  int       `json:"start_year"`
	EndYear    int       `json:"end_year"`
	IsActive   bool      `json:"is_active"`
	ClassCount int64     `json:"class_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewBatchResponse converts a batch model plus its class count.
func NewBatchResponse(batch models.Batch, classCount int64) BatchResponse {
	return BatchResponse{
		ID:         batch.ID,
		Name:       batch.Name,
		StartYear:  batch.StartYear,
		EndYear:    batch.EndYear,
		IsActive:   batch.IsActive,
		ClassCount: classCount,
		CreatedAt:  batch.CreatedAt,
		UpdatedAt:  batch.UpdatedAt,
	}
}

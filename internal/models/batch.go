package models

import "time"

// Batch represents an academic-year cohort (e.g. "2024-2025") that owns classes.
type Batch struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	StartYear   int       `gorm:"not null" json:"start_year"`
	EndYear     int       `gorm:"not null" json:"end_year"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedByID uint      `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Classes     []Class   `json:"classes,omitempty"`
}

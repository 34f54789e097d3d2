package models

import "time"

// SubjectType enumerates the curriculum categories a subject can belong to.
const (
	SubjectTypeCore       = "CORE"
	SubjectTypeElective   = "ELECTIVE"
	SubjectTypeLanguage   = "LANGUAGE"
	SubjectTypeActivity   = "ACTIVITY"
	SubjectTypeVocational = "VOCATIONAL"
)

// Subject represents a curriculum subject taught in a class.
// Subject names are unique within their class.
type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null;uniqueIndex:idx_subject_name_class" json:"name"`
	Code      *string   `gorm:"size:32" json:"code"`
	Type      string    `gorm:"size:32;not null;default:CORE" json:"type"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	ClassID   uint      `gorm:"not null;uniqueIndex:idx_subject_name_class" json:"class_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Class Class `json:"class,omitempty"`
}

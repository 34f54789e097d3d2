package models

import "time"

// Class represents a teaching group (grade plus optional section) within a batch.
// The (name, section, batch) triple is unique.
type Class struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null;uniqueIndex:idx_class_name_section_batch" json:"name"`
	Section     *string   `gorm:"size:32;uniqueIndex:idx_class_name_section_batch" json:"section"`
	Capacity    *int      `json:"capacity"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	BatchID     uint      `gorm:"not null;uniqueIndex:idx_class_name_section_batch" json:"batch_id"`
	CreatedByID uint      `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Batch         Batch                    `json:"batch,omitempty"`
	Subjects      []Subject                `json:"subjects,omitempty"`
	Enrollments   []StudentClassEnrollment `gorm:"foreignKey:ClassID" json:"enrollments,omitempty"`
	FeeStructures []FeeStructure           `gorm:"foreignKey:ClassID" json:"fee_structures,omitempty"`
}

// DisplayName renders the class label the way the UI shows it ("Grade 5 - A").
func (c Class) DisplayName() string {
	if c.Section != nil && *c.Section != "" {
		return c.Name + " - " + *c.Section
	}
	return c.Name
}

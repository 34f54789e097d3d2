package models

import "time"

// FeeType enumerates the billing cadence of a fee structure.
const (
	FeeTypeMonthly       = "MONTHLY"
	FeeTypeQuarterly     = "QUARTERLY"
	FeeTypeHalfYearly    = "HALF_YEARLY"
	FeeTypeAnnual        = "ANNUAL"
	FeeTypeOneTime       = "ONE_TIME"
	FeeTypeMiscellaneous = "MISCELLANEOUS"
)

// Payment methods accepted at the fee counter.
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodCard         = "CARD"
	PaymentMethodUPI          = "UPI"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodCheque       = "CHEQUE"
)

// Payment statuses of a fee collection.
const (
	PaymentStatusPaid    = "PAID"
	PaymentStatusPending = "PENDING"
	PaymentStatusFailed  = "FAILED"
)

// FeeStructure is a named, amount-bearing fee line item scoped to a class.
// Names are unique within their class.
type FeeStructure struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:128;not null;uniqueIndex:idx_fee_structure_name_class" json:"name"`
	Amount    float64    `gorm:"not null" json:"amount"`
	Type      string     `gorm:"size:32;not null;default:MONTHLY" json:"type"`
	DueDate   *time.Time `json:"due_date"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	ClassID   uint       `gorm:"not null;uniqueIndex:idx_fee_structure_name_class" json:"class_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Class Class `json:"class,omitempty"`
}

// IsOverdue reports whether the fee's due date has passed at the reference time.
func (f FeeStructure) IsOverdue(reference time.Time) bool {
	return f.DueDate != nil && f.DueDate.Before(reference)
}

// FeeCollection is one recorded payment event. A single payment can cover
// several fee structures through the join table. Collections are append-only:
// corrections are recorded as new collections, never edits.
type FeeCollection struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StudentID     uint      `gorm:"not null;index" json:"student_id"`
	AmountPaid    float64   `gorm:"not null" json:"amount_paid"`
	PaymentMethod string    `gorm:"size:32;not null" json:"payment_method"`
	Status        string    `gorm:"size:16;not null;default:PAID" json:"status"`
	PaymentDate   time.Time `gorm:"not null;index" json:"payment_date"`
	Remarks       *string   `gorm:"type:text" json:"remarks"`
	CollectedByID uint      `json:"collected_by_id"`
	CreatedAt     time.Time `json:"created_at"`

	Student       Student        `json:"student,omitempty"`
	FeeStructures []FeeStructure `gorm:"many2many:fee_collection_structures" json:"fee_structures,omitempty"`
}

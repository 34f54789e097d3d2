package dto

import (
	"time"

	"github.com/schooldesk/schooldesk-api/internal/models"
)

// Derived payment statuses, evaluated in precedence order.
const (
	FeeStatusNoClass = "no-class"
	FeeStatusNoFees  = "no-fees"
	FeeStatusPaid    = "paid"
	FeeStatusOverdue = "overdue"
	FeeStatusPending = "pending"
)

// PaymentStatus is the per-student fee ledger projection. It is recomputed
// from fee structures and collections on every read, never stored.
type PaymentStatus struct {
	Status      string  `json:"status"`
	TotalDue    float64 `json:"total_due"`
	TotalPaid   float64 `json:"total_paid"`
	Outstanding float64 `json:"outstanding"`
}

// FeeStructureCreateRequest carries the payload for creating a fee structure.
type FeeStructureCreateRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=128"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Type    string  `json:"type" validate:"omitempty,oneof=MONTHLY QUARTERLY HALF_YEARLY ANNUAL ONE_TIME MISCELLANEOUS"`
	ClassID uint    `json:"class_id" validate:"required"`
	DueDate *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// FeeStructureUpdateRequest captures partial update payloads for fee structures.
type FeeStructureUpdateRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1,max=128"`
	Amount   *float64 `json:"amount" validate:"omitempty,gt=0"`
	Type     *string  `json:"type" validate:"omitempty,oneof=MONTHLY QUARTERLY HALF_YEARLY ANNUAL ONE_TIME MISCELLANEOUS"`
	DueDate  *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive *bool    `json:"is_active"`
}

// FeeStructureResponse serializes a fee structure with class context.
type FeeStructureResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Amount    float64    `json:"amount"`
	Type      string     `json:"type"`
	DueDate   *time.Time `json:"due_date"`
	IsActive  bool       `json:"is_active"`
	ClassID   uint       `json:"class_id"`
	ClassName string     `json:"class_name"`
	BatchName string     `json:"batch_name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewFeeStructureResponse converts a fee structure with Class.Batch preloaded.
func NewFeeStructureResponse(fee models.FeeStructure) FeeStructureResponse {
	return FeeStructureResponse{
		ID:        fee.ID,
		Name:      fee.Name,
		Amount:    fee.Amount,
		Type:      fee.Type,
		DueDate:   fee.DueDate,
		IsActive:  fee.IsActive,
		ClassID:   fee.ClassID,
		ClassName: fee.Class.DisplayName(),
		BatchName: fee.Class.Batch.Name,
		CreatedAt: fee.CreatedAt,
		UpdatedAt: fee.UpdatedAt,
	}
}

// RecordPaymentRequest is the fee-counter write path. The amount is accepted
// as given: partial payments and overpayments are both legal.
type RecordPaymentRequest struct {
	StudentID       uint    `json:"student_id" validate:"required"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod   string  `json:"payment_method" validate:"required,oneof=CASH CARD UPI BANK_TRANSFER CHEQUE"`
	Remarks         string  `json:"remarks" validate:"omitempty,max=2000"`
	FeeStructureIDs []uint  `json:"fee_structure_ids" validate:"required,min=1"`
}

// FeeCollectionResponse serializes one recorded payment event.
type FeeCollectionResponse struct {
	ID              uint      `json:"id"`
	StudentID       uint      `json:"student_id"`
	StudentName     string    `json:"student_name"`
	AmountPaid      float64   `json:"amount_paid"`
	PaymentMethod   string    `json:"payment_method"`
	Status          string    `json:"status"`
	PaymentDate     time.Time `json:"payment_date"`
	Remarks         *string   `json:"remarks"`
	CollectedByID   uint      `json:"collected_by_id"`
	FeeStructureIDs []uint    `json:"fee_structure_ids"`
}

// NewFeeCollectionResponse converts a collection with Student and FeeStructures preloaded.
func NewFeeCollectionResponse(collection models.FeeCollection) FeeCollectionResponse {
	feeIDs := make([]uint, 0, len(collection.FeeStructures))
	for _, fee := range collection.FeeStructures {
		feeIDs = append(feeIDs, fee.ID)
	}

	return FeeCollectionResponse{
		ID:              collection.ID,
		StudentID:       collection.StudentID,
		StudentName:     collection.Student.FullName(),
		AmountPaid:      collection.AmountPaid,
		PaymentMethod:   collection.PaymentMethod,
		Status:          collection.Status,
		PaymentDate:     collection.PaymentDate,
		Remarks:         collection.Remarks,
		CollectedByID:   collection.CollectedByID,
		FeeStructureIDs: feeIDs,
	}
}

package dto

import "time"

// ReportFilter narrows the fee report population.
type ReportFilter struct {
	BatchID *uint
	ClassID *uint
	Search  string
}

// ReportSummary is the global rollup across every reported class group.
type ReportSummary struct {
	TotalStudents        int     `json:"total_students"`
	TotalDue             float64 `json:"total_due"`
	TotalCollected       float64 `json:"total_collected"`
	OutstandingAmount    float64 `json:"outstanding_amount"`
	CollectionPercentage float64 `json:"collection_percentage"`
}

// ClassWiseReport is the fee rollup for one (class, batch) group.
type ClassWiseReport struct {
	ClassName            string  `json:"class_name"`
	BatchName            string  `json:"batch_name"`
	TotalStudents        int     `json:"total_students"`
	TotalDue             float64 `json:"total_due"`
	TotalCollected       float64 `json:"total_collected"`
	Outstanding          float64 `json:"outstanding"`
	CollectionPercentage float64 `json:"collection_percentage"`
}

// RecentPayment annotates a payment with the payer's name and current class.
type RecentPayment struct {
	ID            uint      `json:"id"`
	StudentName   string    `json:"student_name"`
	ClassName     string    `json:"class_name"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
}

// FeeReportResponse is the full class-wise fee report payload.
type FeeReportResponse struct {
	Summary        ReportSummary     `json:"summary"`
	ClassWiseData  []ClassWiseReport `json:"class_wise_data"`
	RecentPayments []RecentPayment   `json:"recent_payments"`
}

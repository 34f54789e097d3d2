package dto

import "time"

// DashboardSummary is the headline totals block on the landing page.
type DashboardSummary struct {
	TotalStudents      int64   `json:"total_students"`
	TotalClasses       int64   `json:"total_classes"`
	ActiveClasses      int64   `json:"active_classes"`
	TotalStaff         int64   `json:"total_staff"`
	TotalCollectedFees float64 `json:"total_collected_fees"`
	StudentsInBatch    int64   `json:"students_in_batch"`
	BatchCollectedFees float64 `json:"batch_collected_fees"`
}

// DashboardBatch is the compact batch shape used by the batch selector.
type DashboardBatch struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
}

// DashboardResponse is the read-only dashboard snapshot.
type DashboardResponse struct {
	Summary       DashboardSummary `json:"summary"`
	Batches       []DashboardBatch `json:"batches"`
	SelectedBatch *DashboardBatch  `json:"selected_batch"`
}

// ActivityFeedItem is one audit entry rendered in the recent-activity feed.
type ActivityFeedItem struct {
	ID          uint      `json:"id"`
	StudentName string    `json:"student_name"`
	StudentRoll string    `json:"student_roll"`
	Action      string    `json:"action"`
	Field       string    `json:"field"`
	User        string    `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActivityFeedResponse pages through recent audit entries.
type ActivityFeedResponse struct {
	Activities []ActivityFeedItem `json:"activities"`
	Pagination FeedPagination     `json:"pagination"`
}

// PaymentFeedItem is one payment rendered in the recent-payments feed.
type PaymentFeedItem struct {
	ID            uint      `json:"id"`
	StudentName   string    `json:"student_name"`
	StudentRoll   string    `json:"student_roll"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
}

// PaymentFeedResponse pages through recent payments.
type PaymentFeedResponse struct {
	Payments   []PaymentFeedItem `json:"payments"`
	Pagination FeedPagination    `json:"pagination"`
}

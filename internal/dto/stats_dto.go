package dto

import "time"

// StatusBreakdown counts requests of one kind per lifecycle state.
type StatusBreakdown struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// AdmissionStatsResponse aggregates workflow metrics for the admin dashboard.
type AdmissionStatsResponse struct {
	Admissions       StatusBreakdown `json:"admissions"`
	TeacherRequests  StatusBreakdown `json:"teacher_requests"`
	ApprovedLastWeek int64           `json:"approved_last_week"`
	RejectedLastWeek int64           `json:"rejected_last_week"`
	GeneratedAt      time.Time       `json:"generated_at"`
	CacheHit         bool            `json:"cache_hit"`
}

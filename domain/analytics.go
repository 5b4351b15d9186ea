package domain

import (
	"math"
	"time"
)

// CourseStats reports enrolment and completion for one course.
type CourseStats struct {
	CourseID       string  `json:"course_id"`
	CourseTitle    string  `json:"course_title"`
	Enrolled       int     `json:"enrolled"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

// AnalyticsSummary is the admin dashboard overview.
type AnalyticsSummary struct {
	TotalUsers      int           `json:"total_users"`
	ApprovedUsers   int           `json:"approved_users"`
	PendingUsers    int           `json:"pending_users"`
	ActiveUsers     int           `json:"active_users"`
	MentorshipUsers int           `json:"mentorship_users"`
	CourseStats     []CourseStats `json:"course_stats"`
	GeneratedAt     time.Time     `json:"generated_at"`
}

// CompletionRate is the percentage of enrolled users that completed, rounded to two decimals.
func CompletionRate(completed, enrolled int) float64 {
	if enrolled <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(enrolled)*100*100) / 100
}

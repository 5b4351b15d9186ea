package domain

import "time"

// Progress records whether a user has completed one module.
type Progress struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	ModuleID    string     `json:"module_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MarkCompleted sets the completion flag and keeps CompletedAt consistent with it.
func (p *Progress) MarkCompleted(completed bool, at time.Time) {
	if p == nil {
		return
	}
	p.Completed = completed
	if completed {
		if at.IsZero() {
			at = time.Now()
		}
		at = at.UTC()
		p.CompletedAt = &at
		return
	}
	p.CompletedAt = nil
}

// CourseProgress summarises one user's completion of a course.
type CourseProgress struct {
	CourseID         string `json:"course_id"`
	TotalModules     int    `json:"total_modules"`
	CompletedModules int    `json:"completed_modules"`
}

func (c CourseProgress) IsComplete() bool {
	return c.TotalModules > 0 && c.CompletedModules >= c.TotalModules
}

package domain

import "time"

// CourseType is the closed set of learning tracks.
type CourseType string

const (
	CourseBeginner   CourseType = "beginner"
	CourseAdvanced   CourseType = "advanced"
	CourseMentorship CourseType = "mentorship"
)

func (t CourseType) Valid() bool {
	switch t {
	case CourseBeginner, CourseAdvanced, CourseMentorship:
		return true
	}
	return false
}

// Course represents one learning track.
type Course struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Outline     string     `json:"outline"`
	CourseType  CourseType `json:"course_type"`
	OrderNumber int        `json:"order_number"`
	Archived    bool       `json:"archived"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *Course) IsMentorship() bool {
	return c != nil && c.CourseType == CourseMentorship
}

// Module is one ordered lesson inside a course.
type Module struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Duration    string    `json:"duration,omitempty"`
	VideoLink   string    `json:"video_link,omitempty"`
	PDFLink     string    `json:"pdf_link,omitempty"`
	OrderNumber int       `json:"order_number"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderItem moves one entity to a new position.
type OrderItem struct {
	ID          string `json:"id"`
	OrderNumber int    `json:"order_number"`
}

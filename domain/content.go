package domain

import "time"

// Announcement is a public news item.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeadershipMember is one entry of the public leadership roster.
type LeadershipMember struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Position    string    `json:"position"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	OrderNumber int       `json:"order_number"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SuccessEvent is a past achievement shown on the public timeline.
type SuccessEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Date        time.Time `json:"date"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HomepageSection is a keyed block of homepage copy.
type HomepageSection struct {
	Section   string    `json:"section"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CoachInfo describes the club coach. There is at most one.
type CoachInfo struct {
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	Achievements string    `json:"achievements"`
	ImageURL     string    `json:"image_url,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

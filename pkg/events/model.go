package events

import "time"

type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PosterLink  string    `json:"posterLink"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventUpdate carries the fields to change; nil fields are left alone.
type EventUpdate struct {
	Name        *string
	PosterLink  *string
	Date        *time.Time
	Description *string
}

type Registration struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"eventId"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

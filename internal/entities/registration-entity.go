package entities

import "time"

// Registration - заявка на участие в школе или конгрессе.
type Registration struct {
	ID             uint64    `json:"id" db:"id"`
	SchoolType     string    `json:"school_type" db:"school_type"`
	EventID        *uint64   `json:"event_id" db:"event_id"`
	LastName       string    `json:"last_name" db:"last_name"`
	FirstName      string    `json:"first_name" db:"first_name"`
	MiddleName     string    `json:"middle_name" db:"middle_name"`
	Phone          string    `json:"phone" db:"phone"`
	City           string    `json:"city" db:"city"`
	Category       string    `json:"category" db:"category"`
	INN            string    `json:"inn" db:"inn"`
	Email          string    `json:"email" db:"email"`
	Specialization string    `json:"specialization" db:"specialization"`
	Workplace      string    `json:"workplace" db:"workplace"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

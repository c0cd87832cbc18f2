package models

import "time"

// PlayerProfile is the public, mutable part of a user record.
type PlayerProfile struct {
	Name     string  `json:"name"`
	Age      *int    `json:"age,omitempty"`
	Position *string `json:"position,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Year     *string `json:"yearOrGrade,omitempty"`
	Mobile   *string `json:"mobile,omitempty"`
}

// User represents a registered player or organizer.
// DOB is the login secret (YYYY-MM-DD, compared as an exact string)
// and is never serialized into responses.
type User struct {
	ID        int           `json:"id" db:"id"`
	Email     string        `json:"email" db:"email"`
	DOB       string        `json:"-" db:"dob"`
	Profile   PlayerProfile `json:"profile" db:"profile"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}

package model

import "time"

// Guest is the person entity. IDNumber (passport / national ID) identifies a
// returning guest across stays and is unique.
type Guest struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IDNumber  string    `json:"id_number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g Guest) FullName() string { return g.FirstName + " " + g.LastName }

package models

import (
	"strings"
	"time"
)

// Driver is an authenticated user of the system who may be assigned to cars
type Driver struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Password      string    `json:"-"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	LicenseNumber string    `json:"license_number"`
	CreatedAt     time.Time `json:"created_at"`
	Cars          []Car     `json:"cars,omitempty"`
}

// FullName joins first and last name, falling back to the username
func (d Driver) FullName() string {
	name := strings.TrimSpace(d.FirstName + " " + d.LastName)
	if name == "" {
		return d.Username
	}
	return name
}

func (d Driver) String() string {
	return d.Username + " (" + d.FullName() + ")"
}

package domain

import "time"

// User is the domain model for login accounts. A User may back an Employee
// record but exists independently of one.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Enabled      bool
	Roles        RoleSet
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

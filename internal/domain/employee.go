package domain

import "time"

// Employee is a directory record. DepartmentID and UserID are optional forward
// references; a missing UserID means the employee has no login account.
type Employee struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	DepartmentID   *int64
	UserID         *int64
	DepartmentName *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

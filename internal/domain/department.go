package domain

import "time"

// Department represents an organizational unit employees belong to.
// EmployeeCount is derived at read time from the employees table, never stored.
type Department struct {
	ID            int64
	Name          string
	Description   string
	EmployeeCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

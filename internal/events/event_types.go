package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated   EventType = "employee_created"
	EventEmployeeDeleted   EventType = "employee_deleted"
	EventDepartmentCreated EventType = "department_created"
	EventDepartmentDeleted EventType = "department_deleted"
	EventUserCreated       EventType = "user_created"
)

// Event represents a domain event emitted by the directory services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EmployeePayload accompanies employee events.
type EmployeePayload struct {
	EmployeeID   int64  `json:"employee_id"`
	Email        string `json:"email"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	UserID       *int64 `json:"user_id,omitempty"`
}

// DepartmentPayload accompanies department events.
type DepartmentPayload struct {
	DepartmentID int64  `json:"department_id"`
	Name         string `json:"name"`
}

// UserPayload accompanies user events. Never carries credentials.
type UserPayload struct {
	UserID   int64    `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

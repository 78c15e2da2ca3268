package dto

import "github.com/spec-kit/ems-service/internal/domain"

// EmployeeRequest carries employee fields plus the optional account bundle.
// Omitting departmentId on update clears the department link.
type EmployeeRequest struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email"`
	DepartmentID *int64   `json:"departmentId"`
	Username     string   `json:"username"`
	Password     string   `json:"password"`
	Roles        []string `json:"roles"`
}

// EmployeeResponse is the external representation of an employee.
type EmployeeResponse struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	DepartmentID   *int64  `json:"departmentId,omitempty"`
	DepartmentName *string `json:"departmentName,omitempty"`
	UserID         *int64  `json:"userId,omitempty"`
}

// NewEmployeeResponse maps the domain record.
func NewEmployeeResponse(employee *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             employee.ID,
		FirstName:      employee.FirstName,
		LastName:       employee.LastName,
		Email:          employee.Email,
		DepartmentID:   employee.DepartmentID,
		DepartmentName: employee.DepartmentName,
		UserID:         employee.UserID,
	}
}

// NewEmployeeResponses maps a list.
func NewEmployeeResponses(employees []domain.Employee) []EmployeeResponse {
	result := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		result = append(result, NewEmployeeResponse(&employees[i]))
	}
	return result
}

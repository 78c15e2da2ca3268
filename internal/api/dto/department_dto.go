package dto

import "github.com/spec-kit/ems-service/internal/domain"

// DepartmentRequest payload for create and update.
type DepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DepartmentResponse is the external representation of a department.
// EmployeeCount is derived at read time.
type DepartmentResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	EmployeeCount int    `json:"employeeCount"`
}

// NewDepartmentResponse maps the domain record.
func NewDepartmentResponse(dept *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:            dept.ID,
		Name:          dept.Name,
		Description:   dept.Description,
		EmployeeCount: dept.EmployeeCount,
	}
}

// NewDepartmentResponses maps a list.
func NewDepartmentResponses(departments []domain.Department) []DepartmentResponse {
	result := make([]DepartmentResponse, 0, len(departments))
	for i := range departments {
		result = append(result, NewDepartmentResponse(&departments[i]))
	}
	return result
}

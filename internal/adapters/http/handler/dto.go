package handler

import "github.com/ogurasousui/employee-records-api/internal/core/employee"

// employeeRequest は作成・更新リクエストのボディです。id は無視されます。
type employeeRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type employeeResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
	}
}

func toEmployeeResponses(employees []*employee.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeResponse(e))
	}
	return out
}

package dto

import (
	"time"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// AdmissionSubmitRequest captures a prospective student's admission form.
type AdmissionSubmitRequest struct {
	FirstName string                 `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string                 `json:"last_name" validate:"required,min=1,max=100"`
	Email     string                 `json:"email" validate:"required,email"`
	Phone     string                 `json:"phone" validate:"omitempty,max=32"`
	Course    string                 `json:"course" validate:"required,min=2,max=100"`
	Message   string                 `json:"message" validate:"omitempty,max=5000"`
	Payload   map[string]interface{} `json:"payload" validate:"omitempty"`
}

// TeacherSubmitRequest captures a prospective teacher's hire request.
type TeacherSubmitRequest struct {
	FirstName  string                 `json:"first_name" validate:"required,min=1,max=100"`
	LastName   string                 `json:"last_name" validate:"required,min=1,max=100"`
	Email      string                 `json:"email" validate:"required,email"`
	Phone      string                 `json:"phone" validate:"omitempty,max=32"`
	Department string                 `json:"department" validate:"required,min=2,max=100"`
	Message    string                 `json:"message" validate:"omitempty,max=5000"`
	Payload    map[string]interface{} `json:"payload" validate:"omitempty"`
}

// RequestListRequest defines filters for listing application requests.
type RequestListRequest struct {
	Page     int
	PageSize int
	Search   string
	Kind     string
	Status   string
}

// RequestResponse serializes an application request.
type RequestResponse struct {
	ID         uint                   `json:"id"`
	Kind       string                 `json:"kind"`
	FirstName  string                 `json:"first_name"`
	LastName   string                 `json:"last_name"`
	Email      string                 `json:"email"`
	Phone      string                 `json:"phone,omitempty"`
	Course     string                 `json:"course,omitempty"`
	Department string                 `json:"department,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	Status     string                 `json:"status"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// RequestListResponse wraps a paginated request listing.
type RequestListResponse struct {
	Items      []RequestResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// RejectRequest captures the optional reason accompanying a rejection.
type RejectRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

// NewRequestResponse converts an application request model into a DTO.
func NewRequestResponse(request models.ApplicationRequest) RequestResponse {
	var payload map[string]interface{}
	if len(request.Payload) > 0 {
		payload = map[string]interface{}{}
		for key, value := range request.Payload {
			payload[key] = value
		}
	}

	return RequestResponse{
		ID:         request.ID,
		Kind:       string(request.Kind),
		FirstName:  request.FirstName,
		LastName:   request.LastName,
		Email:      request.Email,
		Phone:      request.Phone,
		Course:     request.Course,
		Department: request.Department,
		Message:    request.Message,
		Payload:    payload,
		Status:     string(request.Status),
		CreatedAt:  request.CreatedAt,
		UpdatedAt:  request.UpdatedAt,
	}
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// RequestKind distinguishes admission forms from teacher hire requests.
type RequestKind string

const (
	RequestKindAdmission RequestKind = "admission"
	RequestKindTeacher   RequestKind = "teacher"
)

// RequestStatus is the lifecycle state of an application request. A request
// leaves PENDING exactly once.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// Terminal reports whether the status permits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// ApplicationRequest is a submitted admission or teacher hire request
// awaiting a staff decision.
type ApplicationRequest struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Kind       RequestKind       `gorm:"size:16;not null;index" json:"kind"`
	FirstName  string            `gorm:"size:100;not null" json:"first_name"`
	LastName   string            `gorm:"size:100;not null" json:"last_name"`
	Email      string            `gorm:"size:255;not null;index" json:"email"`
	Phone      string            `gorm:"size:32" json:"phone"`
	Course     string            `gorm:"size:100" json:"course"`
	Department string            `gorm:"size:100" json:"department"`
	Message    string            `gorm:"type:text" json:"message"`
	Payload    datatypes.JSONMap `gorm:"type:json" json:"payload"`
	Status     RequestStatus     `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

package dto

import (
	"time"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// AccountResponse serializes an issued account. The password hash is never
// part of any response.
type AccountResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// StudentProfileResponse serializes a student profile.
type StudentProfileResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
	Course    string    `json:"course"`
	RollNo    string    `json:"roll_no"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TeacherProfileResponse serializes a teacher profile.
type TeacherProfileResponse struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      string    `json:"phone,omitempty"`
	Department string    `json:"department"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// IssuedCredentials carries the one-time login material for the applicant.
// The password exists only in this response; it is never persisted in
// plaintext and never logged.
type IssuedCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	RollNo   string `json:"roll_no,omitempty"`
}

// AdmissionApprovalResponse is returned once per approved admission request.
type AdmissionApprovalResponse struct {
	Account     AccountResponse        `json:"account"`
	Profile     StudentProfileResponse `json:"profile"`
	Request     RequestResponse        `json:"request"`
	Credentials IssuedCredentials      `json:"credentials"`
}

// TeacherApprovalResponse is returned once per approved teacher-hire request.
type TeacherApprovalResponse struct {
	Account     AccountResponse        `json:"account"`
	Profile     TeacherProfileResponse `json:"profile"`
	Request     RequestResponse        `json:"request"`
	Credentials IssuedCredentials      `json:"credentials"`
}

// NewAccountResponse converts a user model into an account DTO.
func NewAccountResponse(user models.User) AccountResponse {
	return AccountResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  string(user.Role),
	}
}

// NewStudentProfileResponse converts a student profile model into a DTO.
func NewStudentProfileResponse(profile models.StudentProfile) StudentProfileResponse {
	return StudentProfileResponse{
		ID:        profile.ID,
		UserID:    profile.UserID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Phone:     profile.Phone,
		Course:    profile.Course,
		RollNo:    profile.RollNo,
		Status:    profile.Status,
		CreatedAt: profile.CreatedAt,
	}
}

// NewTeacherProfileResponse converts a teacher profile model into a DTO.
func NewTeacherProfileResponse(profile models.TeacherProfile) TeacherProfileResponse {
	return TeacherProfileResponse{
		ID:         profile.ID,
		UserID:     profile.UserID,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Phone:      profile.Phone,
		Department: profile.Department,
		Status:     profile.Status,
		CreatedAt:  profile.CreatedAt,
	}
}

package models

import "time"

// ProfileStatusActive marks a profile created by an approved request.
const ProfileStatusActive = "active"

// StudentProfile is the academic profile created atomically with a student
// account when an admission request is approved.
type StudentProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Course    string    `gorm:"size:100" json:"course"`
	RollNo    string    `gorm:"size:32;uniqueIndex;not null" json:"roll_no"`
	Status    string    `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

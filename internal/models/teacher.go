package models

import "time"

// TeacherProfile is created atomically with a teacher account when a
// teacher-hire request is approved. Teachers carry no roll number.
type TeacherProfile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName  string    `gorm:"size:100;not null" json:"first_name"`
	LastName   string    `gorm:"size:100;not null" json:"last_name"`
	Phone      string    `gorm:"size:32" json:"phone"`
	Department string    `gorm:"size:100" json:"department"`
	Status     string    `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

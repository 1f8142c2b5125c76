package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// StudentProfileRepository provides access to student profiles. RollNoExists
// backs the roll-number allocator's uniqueness probe.
type StudentProfileRepository interface {
	RollNoExists(ctx context.Context, rollNo string) (bool, error)
}

type studentProfileRepository struct {
	db *gorm.DB
}

// NewStudentProfileRepository constructs a student profile repository.
func NewStudentProfileRepository(db *gorm.DB) StudentProfileRepository {
	return &studentProfileRepository{db: db}
}

func (r *studentProfileRepository) RollNoExists(ctx context.Context, rollNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("roll_no = ?", rollNo).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// ErrRequestNotPending signals that the guarded status transition found the
// request already in a terminal state. The compare-and-swap on status is what
// keeps two racing approvals from both issuing credentials.
var ErrRequestNotPending = errors.New("request is not pending")

// ApprovalRepository executes the atomic approve/reject transitions. Account,
// profile and status mutation commit together or not at all; the unique
// indexes on users.email and student_profiles.roll_no are the final guard
// against allocation races.
type ApprovalRepository interface {
	ApproveAdmission(ctx context.Context, requestID uint, user *models.User, profile *models.StudentProfile) (models.ApplicationRequest, error)
	ApproveTeacher(ctx context.Context, requestID uint, user *models.User, profile *models.TeacherProfile) (models.ApplicationRequest, error)
	Reject(ctx context.Context, requestID uint, message string) (models.ApplicationRequest, error)
}

type approvalRepository struct {
	db *gorm.DB
}

// NewApprovalRepository constructs the approval repository.
func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) ApproveAdmission(ctx context.Context, requestID uint, user *models.User, profile *models.StudentProfile) (models.ApplicationRequest, error) {
	var approved models.ApplicationRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		if err := markApproved(tx, requestID); err != nil {
			return err
		}

		return tx.First(&approved, requestID).Error
	})
	if err != nil {
		return models.ApplicationRequest{}, err
	}

	return approved, nil
}

func (r *approvalRepository) ApproveTeacher(ctx context.Context, requestID uint, user *models.User, profile *models.TeacherProfile) (models.ApplicationRequest, error) {
	var approved models.ApplicationRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		if err := markApproved(tx, requestID); err != nil {
			return err
		}

		return tx.First(&approved, requestID).Error
	})
	if err != nil {
		return models.ApplicationRequest{}, err
	}

	return approved, nil
}

func (r *approvalRepository) Reject(ctx context.Context, requestID uint, message string) (models.ApplicationRequest, error) {
	var rejected models.ApplicationRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&models.ApplicationRequest{}).
			Where("id = ?", requestID).
			Where("status = ?", models.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":  models.RequestStatusRejected,
				"message": message,
			})
		if update.Error != nil {
			return update.Error
		}

		if update.RowsAffected == 0 {
			return ErrRequestNotPending
		}

		return tx.First(&rejected, requestID).Error
	})
	if err != nil {
		return models.ApplicationRequest{}, err
	}

	return rejected, nil
}

// markApproved flips the status with a guard on the prior value so only one
// concurrent approval can win.
func markApproved(tx *gorm.DB, requestID uint) error {
	update := tx.Model(&models.ApplicationRequest{}).
		Where("id = ?", requestID).
		Where("status = ?", models.RequestStatusPending).
		Update("status", models.RequestStatusApproved)
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return ErrRequestNotPending
	}

	return nil
}

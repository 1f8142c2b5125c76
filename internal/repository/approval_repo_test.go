package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

func TestApprovalRepositoryApproveAdmission(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)

	request := models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann.approve@example.com",
		Course:    "Mathematics",
		Status:    models.RequestStatusPending,
	}
	require.NoError(t, db.Create(&request).Error)

	user := models.User{Email: request.Email, PasswordHash: "hashed", Role: models.RoleStudent}
	profile := models.StudentProfile{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Course:    request.Course,
		RollNo:    "MATH2025001",
		Status:    models.ProfileStatusActive,
	}

	approved, err := repo.ApproveAdmission(context.Background(), request.ID, &user, &profile)
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusApproved, approved.Status)
	require.NotZero(t, user.ID)
	require.Equal(t, user.ID, profile.UserID)

	var stored models.StudentProfile
	require.NoError(t, db.Where("roll_no = ?", "MATH2025001").First(&stored).Error)
	require.Equal(t, user.ID, stored.UserID)
}

func TestApprovalRepositorySecondApproveFails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)

	request := models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Ben",
		LastName:  "Ochieng",
		Email:     "ben.double@example.com",
		Course:    "Physics",
		Status:    models.RequestStatusPending,
	}
	require.NoError(t, db.Create(&request).Error)

	first := models.User{Email: request.Email, PasswordHash: "hashed", Role: models.RoleStudent}
	firstProfile := models.StudentProfile{FirstName: request.FirstName, LastName: request.LastName, RollNo: "PHY2025001", Status: models.ProfileStatusActive}
	_, err := repo.ApproveAdmission(context.Background(), request.ID, &first, &firstProfile)
	require.NoError(t, err)

	second := models.User{Email: "ben.double+2@example.com", PasswordHash: "hashed", Role: models.RoleStudent}
	secondProfile := models.StudentProfile{FirstName: request.FirstName, LastName: request.LastName, RollNo: "PHY2025002", Status: models.ProfileStatusActive}
	_, err = repo.ApproveAdmission(context.Background(), request.ID, &second, &secondProfile)
	require.ErrorIs(t, err, ErrRequestNotPending)

	// the losing transaction must leave no rows behind
	var users int64
	require.NoError(t, db.Model(&models.User{}).Where("email LIKE ?", "ben.double%").Count(&users).Error)
	require.Equal(t, int64(1), users)

	var profiles int64
	require.NoError(t, db.Model(&models.StudentProfile{}).Where("roll_no LIKE ?", "PHY2025%").Count(&profiles).Error)
	require.Equal(t, int64(1), profiles)
}

func TestApprovalRepositoryRollsBackOnConstraintViolation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)

	existing := models.User{Email: "taken.rollback@example.com", PasswordHash: "hashed", Role: models.RoleStudent}
	require.NoError(t, db.Create(&existing).Error)

	request := models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Cara",
		LastName:  "Mwangi",
		Email:     "taken.rollback@example.com",
		Course:    "Biology",
		Status:    models.RequestStatusPending,
	}
	require.NoError(t, db.Create(&request).Error)

	user := models.User{Email: request.Email, PasswordHash: "hashed", Role: models.RoleStudent}
	profile := models.StudentProfile{FirstName: request.FirstName, LastName: request.LastName, RollNo: "BIO2025001", Status: models.ProfileStatusActive}

	_, err := repo.ApproveAdmission(context.Background(), request.ID, &user, &profile)
	require.Error(t, err)

	var reloaded models.ApplicationRequest
	require.NoError(t, db.First(&reloaded, request.ID).Error)
	require.Equal(t, models.RequestStatusPending, reloaded.Status, "failed transaction must not advance the status")

	var profiles int64
	require.NoError(t, db.Model(&models.StudentProfile{}).Where("roll_no = ?", "BIO2025001").Count(&profiles).Error)
	require.Zero(t, profiles)
}

func TestApprovalRepositoryApproveTeacher(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)

	request := models.ApplicationRequest{
		Kind:       models.RequestKindTeacher,
		FirstName:  "Dina",
		LastName:   "Putri",
		Email:      "dina.teach@example.com",
		Department: "Physics",
		Status:     models.RequestStatusPending,
	}
	require.NoError(t, db.Create(&request).Error)

	user := models.User{Email: request.Email, PasswordHash: "hashed", Role: models.RoleTeacher}
	profile := models.TeacherProfile{FirstName: request.FirstName, LastName: request.LastName, Department: request.Department, Status: models.ProfileStatusActive}

	approved, err := repo.ApproveTeacher(context.Background(), request.ID, &user, &profile)
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusApproved, approved.Status)
	require.Equal(t, user.ID, profile.UserID)
}

func TestApprovalRepositoryReject(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApprovalRepository(db)

	request := models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Eko",
		LastName:  "Wijaya",
		Email:     "eko.reject@example.com",
		Message:   "please consider me",
		Status:    models.RequestStatusPending,
	}
	require.NoError(t, db.Create(&request).Error)

	rejected, err := repo.Reject(context.Background(), request.ID, "please consider me\n\nRejection Reason: insufficient GPA")
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusRejected, rejected.Status)
	require.Equal(t, "please consider me\n\nRejection Reason: insufficient GPA", rejected.Message)

	_, err = repo.Reject(context.Background(), request.ID, "again")
	require.ErrorIs(t, err, ErrRequestNotPending)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Name the in-memory database after the test so state does not leak
	// between tests; cache=shared keeps it visible across pooled connections.
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ApplicationRequest{}, &models.User{}, &models.StudentProfile{}, &models.TeacherProfile{}, &models.ActivityLog{}))
	return db
}

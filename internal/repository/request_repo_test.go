package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

func TestApplicationRequestRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRequestRepository(db)

	older := models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Farah",
		LastName:  "Nasution",
		Email:     "farah.list@example.com",
		Course:    "Computer Science",
		Status:    models.RequestStatusPending,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	newer := models.ApplicationRequest{
		Kind:       models.RequestKindTeacher,
		FirstName:  "Gilang",
		LastName:   "Saputra",
		Email:      "gilang.list@example.com",
		Department: "Mathematics",
		Status:     models.RequestStatusApproved,
		CreatedAt:  time.Now().Add(-1 * time.Hour),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	requests, total, err := repo.List(context.Background(), RequestFilter{Search: "farah", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, requests, 1)
	require.Equal(t, "Farah", requests[0].FirstName)

	requests, total, err = repo.List(context.Background(), RequestFilter{Kind: string(models.RequestKindTeacher), PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Gilang", requests[0].FirstName)

	_, total, err = repo.List(context.Background(), RequestFilter{Status: string(models.RequestStatusPending), Search: "list@example.com", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
}

func TestApplicationRequestRepositoryCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRequestRepository(db)

	seed := []models.ApplicationRequest{
		{Kind: models.RequestKindAdmission, FirstName: "H", LastName: "One", Email: "count1@example.com", Status: models.RequestStatusPending},
		{Kind: models.RequestKindAdmission, FirstName: "H", LastName: "Two", Email: "count2@example.com", Status: models.RequestStatusApproved},
		{Kind: models.RequestKindTeacher, FirstName: "H", LastName: "Three", Email: "count3@example.com", Status: models.RequestStatusApproved},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	counts, err := repo.CountGrouped(context.Background())
	require.NoError(t, err)
	byKey := map[string]int64{}
	for _, c := range counts {
		byKey[string(c.Kind)+"/"+string(c.Status)] += c.Count
	}
	require.GreaterOrEqual(t, byKey["admission/PENDING"], int64(1))
	require.GreaterOrEqual(t, byKey["admission/APPROVED"], int64(1))
	require.GreaterOrEqual(t, byKey["teacher/APPROVED"], int64(1))

	approved, err := repo.CountDecidedSince(context.Background(), models.RequestStatusApproved, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.GreaterOrEqual(t, approved, int64(2))
}

package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/models"
)

// RequestFilter narrows application request listings.
type RequestFilter struct {
	Search   string
	Kind     string
	Status   string
	Page     int
	PageSize int
}

// RequestStatusCount aggregates request counts per kind and status.
type RequestStatusCount struct {
	Kind   models.RequestKind   `json:"kind"`
	Status models.RequestStatus `json:"status"`
	Count  int64                `json:"count"`
}

// ApplicationRequestRepository provides access to admission and teacher-hire requests.
type ApplicationRequestRepository interface {
	Create(ctx context.Context, request *models.ApplicationRequest) error
	GetByID(ctx context.Context, id uint) (models.ApplicationRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]models.ApplicationRequest, int64, error)
	CountGrouped(ctx context.Context) ([]RequestStatusCount, error)
	CountDecidedSince(ctx context.Context, status models.RequestStatus, since time.Time) (int64, error)
}

type applicationRequestRepository struct {
	db *gorm.DB
}

// NewApplicationRequestRepository constructs the request repository.
func NewApplicationRequestRepository(db *gorm.DB) ApplicationRequestRepository {
	return &applicationRequestRepository{db: db}
}

func (r *applicationRequestRepository) Create(ctx context.Context, request *models.ApplicationRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *applicationRequestRepository) GetByID(ctx context.Context, id uint) (models.ApplicationRequest, error) {
	var request models.ApplicationRequest
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		return models.ApplicationRequest{}, err
	}

	return request, nil
}

func (r *applicationRequestRepository) List(ctx context.Context, filter RequestFilter) ([]models.ApplicationRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ApplicationRequest{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var requests []models.ApplicationRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *applicationRequestRepository) CountGrouped(ctx context.Context) ([]RequestStatusCount, error) {
	var counts []RequestStatusCount
	err := r.db.WithContext(ctx).
		Model(&models.ApplicationRequest{}).
		Select("kind, status, COUNT(*) AS count").
		Group("kind").
		Group("status").
		Find(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *applicationRequestRepository) CountDecidedSince(ctx context.Context, status models.RequestStatus, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.ApplicationRequest{}).
		Where("status = ?", status).
		Where("updated_at >= ?", since).
		Count(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

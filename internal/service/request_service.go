package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

// RequestService handles public submission and staff-side browsing of
// application requests.
type RequestService interface {
	SubmitAdmission(ctx context.Context, payload dto.AdmissionSubmitRequest) (dto.RequestResponse, error)
	SubmitTeacherRequest(ctx context.Context, payload dto.TeacherSubmitRequest) (dto.RequestResponse, error)
	List(ctx context.Context, req dto.RequestListRequest) (dto.RequestListResponse, error)
	Get(ctx context.Context, id uint) (dto.RequestResponse, error)
}

type requestService struct {
	repo      repository.ApplicationRequestRepository
	validator *validator.Validate
	events    EventPublisher
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewRequestService constructs the request intake service.
func NewRequestService(repo repository.ApplicationRequestRepository, validate *validator.Validate, events EventPublisher, logger zerolog.Logger) RequestService {
	return &requestService{
		repo:      repo,
		validator: validate,
		events:    events,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "request_service").Logger(),
	}
}

func (s *requestService) SubmitAdmission(ctx context.Context, payload dto.AdmissionSubmitRequest) (dto.RequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RequestResponse{}, err
	}

	if err := validatePayload(admissionPayload, payload.Payload); err != nil {
		return dto.RequestResponse{}, err
	}

	request := models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: s.clean(payload.FirstName),
		LastName:  s.clean(payload.LastName),
		Email:     strings.ToLower(strings.TrimSpace(payload.Email)),
		Phone:     s.clean(payload.Phone),
		Course:    s.clean(payload.Course),
		Message:   s.clean(payload.Message),
		Payload:   jsonMapFromPayload(payload.Payload),
		Status:    models.RequestStatusPending,
	}

	if err := s.repo.Create(ctx, &request); err != nil {
		s.logger.Error().Err(err).Msg("failed to store admission request")
		return dto.RequestResponse{}, err
	}

	if s.events != nil {
		s.events.Publish(ctx, RequestEvent{
			Type:      "admissions.request.submitted",
			RequestID: request.ID,
			Kind:      string(request.Kind),
			Status:    string(request.Status),
		})
	}

	s.logger.Info().Uint("request_id", request.ID).Msg("admission request submitted")

	return dto.NewRequestResponse(request), nil
}

func (s *requestService) SubmitTeacherRequest(ctx context.Context, payload dto.TeacherSubmitRequest) (dto.RequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RequestResponse{}, err
	}

	if err := validatePayload(teacherPayload, payload.Payload); err != nil {
		return dto.RequestResponse{}, err
	}

	request := models.ApplicationRequest{
		Kind:       models.RequestKindTeacher,
		FirstName:  s.clean(payload.FirstName),
		LastName:   s.clean(payload.LastName),
		Email:      strings.ToLower(strings.TrimSpace(payload.Email)),
		Phone:      s.clean(payload.Phone),
		Department: s.clean(payload.Department),
		Message:    s.clean(payload.Message),
		Payload:    jsonMapFromPayload(payload.Payload),
		Status:     models.RequestStatusPending,
	}

	if err := s.repo.Create(ctx, &request); err != nil {
		s.logger.Error().Err(err).Msg("failed to store teacher request")
		return dto.RequestResponse{}, err
	}

	if s.events != nil {
		s.events.Publish(ctx, RequestEvent{
			Type:      "admissions.request.submitted",
			RequestID: request.ID,
			Kind:      string(request.Kind),
			Status:    string(request.Status),
		})
	}

	s.logger.Info().Uint("request_id", request.ID).Msg("teacher request submitted")

	return dto.NewRequestResponse(request), nil
}

func (s *requestService) List(ctx context.Context, req dto.RequestListRequest) (dto.RequestListResponse, error) {
	filter := repository.RequestFilter{
		Search:   strings.TrimSpace(req.Search),
		Kind:     strings.ToLower(strings.TrimSpace(req.Kind)),
		Status:   strings.ToUpper(strings.TrimSpace(req.Status)),
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.RequestListResponse{}, err
	}

	responses := make([]dto.RequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, dto.NewRequestResponse(request))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.RequestListResponse{Items: responses, Pagination: pagination}, nil
}

func (s *requestService) Get(ctx context.Context, id uint) (dto.RequestResponse, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RequestResponse{}, ErrRequestNotFound
		}
		return dto.RequestResponse{}, err
	}

	return dto.NewRequestResponse(request), nil
}

// clean strips markup from applicant-supplied free text before it reaches
// the store.
func (s *requestService) clean(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

func jsonMapFromPayload(payload map[string]interface{}) datatypes.JSONMap {
	if payload == nil {
		return nil
	}

	data := datatypes.JSONMap{}
	for key, value := range payload {
		data[key] = value
	}
	return data
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/observability"
	"github.com/noah-isme/admissions-go-api/internal/repository"
	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// ErrRequestNotFound indicates no application request matches the identifier.
var ErrRequestNotFound = errors.New("application request not found")

// ErrRequestNotPending indicates the request already reached a terminal state.
var ErrRequestNotPending = errors.New("request is not pending approval")

// ErrEmailTaken indicates an account already exists for the applicant's email.
var ErrEmailTaken = errors.New("user already exists")

const rejectionSeparator = "\n\nRejection Reason: "

// ApprovalService coordinates the approve/reject workflow: validation,
// credential issuance and the atomic account/profile/status transaction.
type ApprovalService interface {
	ApproveAdmission(ctx context.Context, requestID uint, actor Actor) (dto.AdmissionApprovalResponse, error)
	ApproveTeacher(ctx context.Context, requestID uint, actor Actor) (dto.TeacherApprovalResponse, error)
	Reject(ctx context.Context, requestID uint, reason string, actor Actor) (dto.RequestResponse, error)
}

type approvalService struct {
	requests  repository.ApplicationRequestRepository
	approvals repository.ApprovalRepository
	users     repository.UserRepository
	rollNos   RollNoChecker
	events    EventPublisher
	activity  ActivityRecorder
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewApprovalService constructs the approval coordinator.
func NewApprovalService(
	requests repository.ApplicationRequestRepository,
	approvals repository.ApprovalRepository,
	users repository.UserRepository,
	rollNos RollNoChecker,
	events EventPublisher,
	activity ActivityRecorder,
	logger zerolog.Logger,
) ApprovalService {
	return &approvalService{
		requests:  requests,
		approvals: approvals,
		users:     users,
		rollNos:   rollNos,
		events:    events,
		activity:  activity,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "approval_service").Logger(),
		now:       time.Now,
	}
}

func (s *approvalService) ApproveAdmission(ctx context.Context, requestID uint, actor Actor) (dto.AdmissionApprovalResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/admissions-go-api/internal/service/approval")
	ctx, span := tracer.Start(ctx, "approval.admission", trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(
		attribute.Int64("approval.request_id", int64(requestID)),
		attribute.Int64("approval.actor_id", int64(actor.ID)),
	)
	defer span.End()

	request, err := s.loadPending(ctx, requestID, models.RequestKindAdmission)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.AdmissionApprovalResponse{}, err
	}

	if err := s.ensureEmailFree(ctx, request.Email); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "email_taken")
		return dto.AdmissionApprovalResponse{}, err
	}

	// year of approval, not submission
	year := s.now().Year()
	rollNo, err := GenerateRollNo(ctx, s.rollNos, CourseCode(request.Course), year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "roll_number_allocation_failed")
		return dto.AdmissionApprovalResponse{}, err
	}

	password, hash, err := s.issuePassword()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "credential_issuance_failed")
		return dto.AdmissionApprovalResponse{}, err
	}

	user := models.User{Email: request.Email, PasswordHash: hash, Role: models.RoleStudent}
	profile := models.StudentProfile{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Phone:     request.Phone,
		Course:    request.Course,
		RollNo:    rollNo,
		Status:    models.ProfileStatusActive,
	}

	approved, err := s.approvals.ApproveAdmission(ctx, request.ID, &user, &profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "approval_transaction_failed")
		if errors.Is(err, repository.ErrRequestNotPending) {
			return dto.AdmissionApprovalResponse{}, ErrRequestNotPending
		}
		return dto.AdmissionApprovalResponse{}, err
	}

	observability.Decisions().WithLabelValues(string(models.RequestKindAdmission), "approved").Inc()
	s.recordDecision(ctx, actor, "admission.approved", request.ID, map[string]interface{}{
		"request_id": request.ID,
		"roll_no":    rollNo,
	})
	s.publishDecision(ctx, "admissions.request.approved", approved)

	s.logger.Info().
		Uint("request_id", request.ID).
		Str("roll_no", rollNo).
		Msg("admission request approved")

	return dto.AdmissionApprovalResponse{
		Account: dto.NewAccountResponse(user),
		Profile: dto.NewStudentProfileResponse(profile),
		Request: dto.NewRequestResponse(approved),
		Credentials: dto.IssuedCredentials{
			Email:    user.Email,
			Password: password,
			RollNo:   rollNo,
		},
	}, nil
}

func (s *approvalService) ApproveTeacher(ctx context.Context, requestID uint, actor Actor) (dto.TeacherApprovalResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/admissions-go-api/internal/service/approval")
	ctx, span := tracer.Start(ctx, "approval.teacher", trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(
		attribute.Int64("approval.request_id", int64(requestID)),
		attribute.Int64("approval.actor_id", int64(actor.ID)),
	)
	defer span.End()

	request, err := s.loadPending(ctx, requestID, models.RequestKindTeacher)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.TeacherApprovalResponse{}, err
	}

	if err := s.ensureEmailFree(ctx, request.Email); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "email_taken")
		return dto.TeacherApprovalResponse{}, err
	}

	password, hash, err := s.issuePassword()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "credential_issuance_failed")
		return dto.TeacherApprovalResponse{}, err
	}

	user := models.User{Email: request.Email, PasswordHash: hash, Role: models.RoleTeacher}
	profile := models.TeacherProfile{
		FirstName:  request.FirstName,
		LastName:   request.LastName,
		Phone:      request.Phone,
		Department: request.Department,
		Status:     models.ProfileStatusActive,
	}

	approved, err := s.approvals.ApproveTeacher(ctx, request.ID, &user, &profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "approval_transaction_failed")
		if errors.Is(err, repository.ErrRequestNotPending) {
			return dto.TeacherApprovalResponse{}, ErrRequestNotPending
		}
		return dto.TeacherApprovalResponse{}, err
	}

	observability.Decisions().WithLabelValues(string(models.RequestKindTeacher), "approved").Inc()
	s.recordDecision(ctx, actor, "teacher_request.approved", request.ID, map[string]interface{}{
		"request_id": request.ID,
		"department": profile.Department,
	})
	s.publishDecision(ctx, "admissions.request.approved", approved)

	s.logger.Info().
		Uint("request_id", request.ID).
		Str("department", profile.Department).
		Msg("teacher request approved")

	return dto.TeacherApprovalResponse{
		Account: dto.NewAccountResponse(user),
		Profile: dto.NewTeacherProfileResponse(profile),
		Request: dto.NewRequestResponse(approved),
		Credentials: dto.IssuedCredentials{
			Email:    user.Email,
			Password: password,
		},
	}, nil
}

func (s *approvalService) Reject(ctx context.Context, requestID uint, reason string, actor Actor) (dto.RequestResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RequestResponse{}, ErrRequestNotFound
		}
		return dto.RequestResponse{}, err
	}

	if request.Status != models.RequestStatusPending {
		return dto.RequestResponse{}, ErrRequestNotPending
	}

	message := request.Message
	if trimmed := strings.TrimSpace(s.sanitizer.Sanitize(reason)); trimmed != "" {
		// append rather than replace so the original submission survives
		if message == "" {
			message = "Rejection Reason: " + trimmed
		} else {
			message = message + rejectionSeparator + trimmed
		}
	}

	rejected, err := s.approvals.Reject(ctx, request.ID, message)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotPending) {
			return dto.RequestResponse{}, ErrRequestNotPending
		}
		return dto.RequestResponse{}, err
	}

	observability.Decisions().WithLabelValues(string(request.Kind), "rejected").Inc()
	s.recordDecision(ctx, actor, string(request.Kind)+"_request.rejected", request.ID, map[string]interface{}{
		"request_id": request.ID,
	})
	s.publishDecision(ctx, "admissions.request.rejected", rejected)

	s.logger.Info().Uint("request_id", request.ID).Msg("request rejected")

	return dto.NewRequestResponse(rejected), nil
}

// loadPending fetches the request and enforces the kind and single-transition
// preconditions shared by both approval paths.
func (s *approvalService) loadPending(ctx context.Context, requestID uint, kind models.RequestKind) (models.ApplicationRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ApplicationRequest{}, ErrRequestNotFound
		}
		return models.ApplicationRequest{}, err
	}

	if request.Kind != kind {
		return models.ApplicationRequest{}, ErrRequestNotFound
	}

	if request.Status != models.RequestStatusPending {
		return models.ApplicationRequest{}, ErrRequestNotPending
	}

	return request, nil
}

func (s *approvalService) ensureEmailFree(ctx context.Context, email string) error {
	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

// issuePassword returns the plaintext password alongside its bcrypt hash. The
// plaintext lives only in the returned approval response.
func (s *approvalService) issuePassword() (string, string, error) {
	password, err := GenerateSecurePassword()
	if err != nil {
		return "", "", err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return "", "", err
	}

	return password, hash, nil
}

func (s *approvalService) recordDecision(ctx context.Context, actor Actor, action string, requestID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	id := requestID
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "application_request",
		EntityID:   &id,
		Metadata:   metadata,
	})
}

func (s *approvalService) publishDecision(ctx context.Context, eventType string, request models.ApplicationRequest) {
	if s.events == nil {
		return
	}

	s.events.Publish(ctx, RequestEvent{
		Type:      eventType,
		RequestID: request.ID,
		Kind:      string(request.Kind),
		Status:    string(request.Status),
	})
}

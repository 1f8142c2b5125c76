package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

type fakeRequestRepo struct {
	requests map[uint]models.ApplicationRequest
}

func (f *fakeRequestRepo) Create(ctx context.Context, request *models.ApplicationRequest) error {
	request.ID = uint(len(f.requests) + 1)
	f.requests[request.ID] = *request
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id uint) (models.ApplicationRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return models.ApplicationRequest{}, gorm.ErrRecordNotFound
	}
	return request, nil
}

func (f *fakeRequestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]models.ApplicationRequest, int64, error) {
	var out []models.ApplicationRequest
	for _, request := range f.requests {
		out = append(out, request)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequestRepo) CountGrouped(ctx context.Context) ([]repository.RequestStatusCount, error) {
	return nil, nil
}

func (f *fakeRequestRepo) CountDecidedSince(ctx context.Context, status models.RequestStatus, since time.Time) (int64, error) {
	return 0, nil
}

// fakeApprovalRepo mimics the transactional repository including the
// compare-and-swap on status.
type fakeApprovalRepo struct {
	requests *fakeRequestRepo
	users    []models.User
	students []models.StudentProfile
	teachers []models.TeacherProfile
}

func (f *fakeApprovalRepo) ApproveAdmission(ctx context.Context, requestID uint, user *models.User, profile *models.StudentProfile) (models.ApplicationRequest, error) {
	request, ok := f.requests.requests[requestID]
	if !ok || request.Status != models.RequestStatusPending {
		return models.ApplicationRequest{}, repository.ErrRequestNotPending
	}

	user.ID = uint(len(f.users) + 1)
	f.users = append(f.users, *user)
	profile.UserID = user.ID
	profile.ID = uint(len(f.students) + 1)
	f.students = append(f.students, *profile)

	request.Status = models.RequestStatusApproved
	f.requests.requests[requestID] = request
	return request, nil
}

func (f *fakeApprovalRepo) ApproveTeacher(ctx context.Context, requestID uint, user *models.User, profile *models.TeacherProfile) (models.ApplicationRequest, error) {
	request, ok := f.requests.requests[requestID]
	if !ok || request.Status != models.RequestStatusPending {
		return models.ApplicationRequest{}, repository.ErrRequestNotPending
	}

	user.ID = uint(len(f.users) + 1)
	f.users = append(f.users, *user)
	profile.UserID = user.ID
	profile.ID = uint(len(f.teachers) + 1)
	f.teachers = append(f.teachers, *profile)

	request.Status = models.RequestStatusApproved
	f.requests.requests[requestID] = request
	return request, nil
}

func (f *fakeApprovalRepo) Reject(ctx context.Context, requestID uint, message string) (models.ApplicationRequest, error) {
	request, ok := f.requests.requests[requestID]
	if !ok || request.Status != models.RequestStatusPending {
		return models.ApplicationRequest{}, repository.ErrRequestNotPending
	}

	request.Status = models.RequestStatusRejected
	request.Message = message
	f.requests.requests[requestID] = request
	return request, nil
}

type fakeUserRepo struct {
	emails map[string]bool
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return f.emails[email], nil
}

type recordedEvent struct {
	event RequestEvent
}

type fakeEventPublisher struct {
	events []recordedEvent
}

func (f *fakeEventPublisher) Publish(ctx context.Context, event RequestEvent) {
	f.events = append(f.events, recordedEvent{event: event})
}

type fakeActivityRecorder struct {
	entries []ActivityEntry
}

func (f *fakeActivityRecorder) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	f.entries = append(f.entries, entry)
	return dto.ActivityResponse{}, nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type approvalFixture struct {
	requests  *fakeRequestRepo
	approvals *fakeApprovalRepo
	users     *fakeUserRepo
	rollNos   *fakeRollNoChecker
	events    *fakeEventPublisher
	activity  *fakeActivityRecorder
	svc       ApprovalService
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()

	requests := &fakeRequestRepo{requests: map[uint]models.ApplicationRequest{}}
	approvals := &fakeApprovalRepo{requests: requests}
	users := &fakeUserRepo{emails: map[string]bool{}}
	rollNos := &fakeRollNoChecker{taken: map[string]bool{}}
	events := &fakeEventPublisher{}
	activity := &fakeActivityRecorder{}

	svc := NewApprovalService(requests, approvals, users, rollNos, events, activity, testLogger())
	svc.(*approvalService).now = func() time.Time {
		return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	}

	return &approvalFixture{
		requests:  requests,
		approvals: approvals,
		users:     users,
		rollNos:   rollNos,
		events:    events,
		activity:  activity,
		svc:       svc,
	}
}

func (f *approvalFixture) seed(request models.ApplicationRequest) uint {
	id := uint(len(f.requests.requests) + 1)
	request.ID = id
	if request.Status == "" {
		request.Status = models.RequestStatusPending
	}
	f.requests.requests[id] = request
	return id
}

func TestApproveAdmissionIssuesCredentials(t *testing.T) {
	f := newApprovalFixture(t)
	id := f.seed(models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@x.com",
		Course:    "Mathematics",
	})

	result, err := f.svc.ApproveAdmission(context.Background(), id, Actor{ID: 7, Role: "admin"})
	require.NoError(t, err)

	require.Equal(t, "ann@x.com", result.Account.Email)
	require.Equal(t, string(models.RoleStudent), result.Account.Role)
	require.Regexp(t, regexp.MustCompile(`^MATH20\d{2}\d{3}$`), result.Profile.RollNo)
	require.Equal(t, "MATH2025001", result.Profile.RollNo)
	require.Equal(t, string(models.RequestStatusApproved), result.Request.Status)
	require.Len(t, result.Credentials.Password, 12)
	require.Equal(t, result.Profile.RollNo, result.Credentials.RollNo)

	require.Len(t, f.approvals.users, 1)
	require.NotEqual(t, result.Credentials.Password, f.approvals.users[0].PasswordHash)

	require.Len(t, f.events.events, 1)
	require.Equal(t, "admissions.request.approved", f.events.events[0].event.Type)
	require.Len(t, f.activity.entries, 1)
	require.Equal(t, "admission.approved", f.activity.entries[0].Action)
}

func TestApproveAdmissionTwiceFails(t *testing.T) {
	f := newApprovalFixture(t)
	id := f.seed(models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Ben",
		LastName:  "Okoro",
		Email:     "ben@x.com",
		Course:    "Physics",
	})

	_, err := f.svc.ApproveAdmission(context.Background(), id, Actor{ID: 7, Role: "admin"})
	require.NoError(t, err)

	_, err = f.svc.ApproveAdmission(context.Background(), id, Actor{ID: 7, Role: "admin"})
	require.ErrorIs(t, err, ErrRequestNotPending)

	require.Len(t, f.approvals.users, 1, "second approval must not create another account")
	require.Len(t, f.approvals.students, 1)
}

func TestApproveAdmissionDuplicateEmail(t *testing.T) {
	f := newApprovalFixture(t)
	f.users.emails["taken@x.com"] = true
	id := f.seed(models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Cara",
		LastName:  "Putri",
		Email:     "taken@x.com",
		Course:    "Biology",
	})

	_, err := f.svc.ApproveAdmission(context.Background(), id, Actor{ID: 7, Role: "admin"})
	require.ErrorIs(t, err, ErrEmailTaken)
	require.Empty(t, f.approvals.users)
	require.Empty(t, f.approvals.students)
}

func TestApproveAdmissionUnmappedCourseUsesFallback(t *testing.T) {
	f := newApprovalFixture(t)
	id := f.seed(models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Dewi",
		LastName:  "Sari",
		Email:     "dewi@x.com",
		Course:    "Underwater Basketry",
	})

	result, err := f.svc.ApproveAdmission(context.Background(), id, Actor{ID: 7, Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, "GEN2025001", result.Profile.RollNo)
}

func TestApproveAdmissionNotFound(t *testing.T) {
	f := newApprovalFixture(t)

	_, err := f.svc.ApproveAdmission(context.Background(), 99, Actor{ID: 7, Role: "admin"})
	require.ErrorIs(t, err, ErrRequestNotFound)
}

func TestApproveAdmissionRejectsTeacherRequest(t *testing.T) {
	f := newApprovalFixture(t)
	id := f.seed(models.ApplicationRequest{
		Kind:       models.RequestKindTeacher,
		FirstName:  "Eka",
		LastName:   "Wati",
		Email:      "eka@x.com",
		Department: "Physics",
	})

	_, err := f.svc.ApproveAdmission(context.Background(), id, Actor{ID: 7, Role: "admin"})
	require.ErrorIs(t, err, ErrRequestNotFound)
}

func TestApproveTeacherRequest(t *testing.T) {
	f := newApprovalFixture(t)
	id := f.seed(models.ApplicationRequest{
		Kind:       models.RequestKindTeacher,
		FirstName:  "Fajar",
		LastName:   "Nugroho",
		Email:      "fajar@x.com",
		Department: "Physics",
	})

	result, err := f.svc.ApproveTeacher(context.Background(), id, Actor{ID: 7, Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, string(models.RoleTeacher), result.Account.Role)
	require.Equal(t, "Physics", result.Profile.Department)
	require.Empty(t, result.Credentials.RollNo, "teachers carry no roll number")
	require.Len(t, result.Credentials.Password, 12)
}

func TestRejectAppendsReason(t *testing.T) {
	f := newApprovalFixture(t)
	id := f.seed(models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Gita",
		LastName:  "Lestari",
		Email:     "gita@x.com",
		Course:    "Law",
		Message:   "please consider me",
	})

	result, err := f.svc.Reject(context.Background(), id, "insufficient GPA", Actor{ID: 7, Role: "teacher"})
	require.NoError(t, err)
	require.Equal(t, string(models.RequestStatusRejected), result.Status)
	require.Equal(t, "please consider me\n\nRejection Reason: insufficient GPA", result.Message)
}

func TestRejectWithoutReasonKeepsMessage(t *testing.T) {
	f := newApprovalFixture(t)
	id := f.seed(models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Hana",
		LastName:  "Yusuf",
		Email:     "hana@x.com",
		Course:    "Arts",
		Message:   "original note",
	})

	result, err := f.svc.Reject(context.Background(), id, "", Actor{ID: 7, Role: "teacher"})
	require.NoError(t, err)
	require.Equal(t, "original note", result.Message)
}

func TestRejectTwiceFails(t *testing.T) {
	f := newApprovalFixture(t)
	id := f.seed(models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Iman",
		LastName:  "Halim",
		Email:     "iman@x.com",
		Course:    "Business",
	})

	_, err := f.svc.Reject(context.Background(), id, "late submission", Actor{ID: 7, Role: "teacher"})
	require.NoError(t, err)

	_, err = f.svc.Reject(context.Background(), id, "again", Actor{ID: 7, Role: "teacher"})
	require.ErrorIs(t, err, ErrRequestNotPending)
}

func TestRejectThenApproveFails(t *testing.T) {
	f := newApprovalFixture(t)
	id := f.seed(models.ApplicationRequest{
		Kind:      models.RequestKindAdmission,
		FirstName: "Joko",
		LastName:  "Widodo",
		Email:     "joko@x.com",
		Course:    "Engineering",
	})

	_, err := f.svc.Reject(context.Background(), id, "", Actor{ID: 7, Role: "teacher"})
	require.NoError(t, err)

	_, err = f.svc.ApproveAdmission(context.Background(), id, Actor{ID: 7, Role: "admin"})
	require.ErrorIs(t, err, ErrRequestNotPending)
	require.Empty(t, f.approvals.users)
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/service"
	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// AdminRequestHandler wires the staff-side request browsing and decision endpoints.
type AdminRequestHandler struct {
	requests  service.RequestService
	approvals service.ApprovalService
	logger    zerolog.Logger
}

// NewAdminRequestHandler constructs the handler.
func NewAdminRequestHandler(requests service.RequestService, approvals service.ApprovalService, logger zerolog.Logger) *AdminRequestHandler {
	return &AdminRequestHandler{
		requests:  requests,
		approvals: approvals,
		logger:    logger.With().Str("component", "admin_request_handler").Logger(),
	}
}

// Register attaches the admin routes to the router group.
func (h *AdminRequestHandler) Register(router fiber.Router) {
	router.Get("/requests", h.list)
	router.Get("/requests/:id", h.get)
	router.Post("/requests/:id/reject", h.reject)
	router.Post("/admissions/:id/approve", h.approveAdmission)
	router.Post("/teacher-requests/:id/approve", h.approveTeacher)
}

func (h *AdminRequestHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}

	req := dto.RequestListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Kind:     c.Query("kind"),
		Status:   c.Query("status"),
	}

	response, err := h.requests.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list requests")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list requests")
	}

	return utils.SendSuccess(c, "requests retrieved", response)
}

func (h *AdminRequestHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	request, err := h.requests.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "request not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch request")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch request")
	}

	return utils.SendSuccess(c, "request retrieved", request)
}

func (h *AdminRequestHandler) approveAdmission(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	result, err := h.approvals.ApproveAdmission(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.decisionError(c, err, "failed to approve admission request")
	}

	return utils.SendSuccess(c, "admission request approved", result)
}

func (h *AdminRequestHandler) approveTeacher(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	result, err := h.approvals.ApproveTeacher(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.decisionError(c, err, "failed to approve teacher request")
	}

	return utils.SendSuccess(c, "teacher request approved", result)
}

func (h *AdminRequestHandler) reject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	result, err := h.approvals.Reject(c.Context(), id, payload.Reason, actorFromContext(c))
	if err != nil {
		return h.decisionError(c, err, "failed to reject request")
	}

	return utils.SendSuccess(c, "request rejected", result)
}

// decisionError maps workflow errors onto the closed status-code taxonomy.
// Unexpected failures stay generic so internal details never reach callers.
func (h *AdminRequestHandler) decisionError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "request not found")
	case errors.Is(err, service.ErrRequestNotPending):
		return utils.SendError(c, fiber.StatusBadRequest, "request is not pending approval")
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, "user already exists")
	case errors.Is(err, service.ErrRollNoExhausted):
		return utils.SendError(c, fiber.StatusConflict, "roll number space exhausted")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

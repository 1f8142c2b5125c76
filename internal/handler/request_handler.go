package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/service"
	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// RequestHandler wires the public submission endpoints.
type RequestHandler struct {
	service service.RequestService
	logger  zerolog.Logger
}

// NewRequestHandler constructs the handler.
func NewRequestHandler(service service.RequestService, logger zerolog.Logger) *RequestHandler {
	return &RequestHandler{
		service: service,
		logger:  logger.With().Str("component", "request_handler").Logger(),
	}
}

// Register attaches the public submission routes to the router group.
func (h *RequestHandler) Register(router fiber.Router) {
	router.Post("/admissions", h.submitAdmission)
	router.Post("/teacher-requests", h.submitTeacherRequest)
}

func (h *RequestHandler) submitAdmission(c *fiber.Ctx) error {
	var payload dto.AdmissionSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.SubmitAdmission(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
		}
		if errors.Is(err, service.ErrInvalidPayload) {
			return utils.SendError(c, fiber.StatusBadRequest, "payload does not match schema")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit admission request")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit admission request")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "admission request submitted", result)
}

func (h *RequestHandler) submitTeacherRequest(c *fiber.Ctx) error {
	var payload dto.TeacherSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.SubmitTeacherRequest(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
		}
		if errors.Is(err, service.ErrInvalidPayload) {
			return utils.SendError(c, fiber.StatusBadRequest, "payload does not match schema")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit teacher request")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit teacher request")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teacher request submitted", result)
}

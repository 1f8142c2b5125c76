package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/service"
	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// AdminStatsHandler exposes aggregated workflow metrics.
type AdminStatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewAdminStatsHandler constructs the handler.
func NewAdminStatsHandler(service service.StatsService, logger zerolog.Logger) *AdminStatsHandler {
	return &AdminStatsHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_stats_handler").Logger(),
	}
}

// Register attaches the stats route to the router group.
func (h *AdminStatsHandler) Register(router fiber.Router) {
	router.Get("/stats", h.stats)
}

func (h *AdminStatsHandler) stats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build admission stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build admission stats")
	}

	return utils.SendSuccess(c, "stats retrieved", stats)
}

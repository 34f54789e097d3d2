package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/schooldesk/schooldesk-api/internal/service"
	"github.com/schooldesk/schooldesk-api/internal/utils"
)

const defaultFeedLimit = 20

// DashboardHandler wires the dashboard snapshot and its activity and payment
// feeds.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches dashboard routes to the router group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("", h.summary)
	router.Get("/activities", h.activities)
	router.Get("/payments", h.payments)
}

func (h *DashboardHandler) summary(c *fiber.Ctx) error {
	batchID, err := parseQueryUintPtr(c, "batch_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid batch_id")
	}

	summary, err := h.service.GetSummary(c.Context(), batchID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build dashboard summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build dashboard summary")
	}

	return utils.SendSuccess(c, "dashboard retrieved", summary)
}

func (h *DashboardHandler) activities(c *fiber.Ctx) error {
	page, limit, err := parsePagination(c, defaultFeedLimit)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	batchID, err := parseQueryUintPtr(c, "batch_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid batch_id")
	}

	feed, err := h.service.GetActivities(c.Context(), page, limit, batchID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activities")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activities")
	}

	return utils.SendSuccess(c, "activities retrieved", feed)
}

func (h *DashboardHandler) payments(c *fiber.Ctx) error {
	page, limit, err := parsePagination(c, defaultFeedLimit)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	batchID, err := parseQueryUintPtr(c, "batch_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid batch_id")
	}

	feed, err := h.service.GetPayments(c.Context(), page, limit, batchID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list payments feed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list payments feed")
	}

	return utils.SendSuccess(c, "payments retrieved", feed)
}

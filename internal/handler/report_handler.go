package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/service"
	"github.com/schooldesk/schooldesk-api/internal/utils"
)

// ReportHandler wires the class-wise fee report endpoint.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register attaches report routes to the router group.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("", h.classWise)
}

func (h *ReportHandler) classWise(c *fiber.Ctx) error {
	batchID, err := parseQueryUintPtr(c, "batch_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid batch_id")
	}
	classID, err := parseQueryUintPtr(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class_id")
	}

	filter := dto.ReportFilter{
		BatchID: batchID,
		ClassID: classID,
		Search:  c.Query("search"),
	}

	report, err := h.service.GetClassWiseReport(c.Context(), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build fee report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build fee report")
	}

	return utils.SendSuccess(c, "fee report retrieved", report)
}

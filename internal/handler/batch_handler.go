package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/service"
	"github.com/schooldesk/schooldesk-api/internal/utils"
)

// BatchHandler wires academic batch endpoints.
type BatchHandler struct {
	service service.BatchService
	logger  zerolog.Logger
}

// NewBatchHandler constructs the handler.
func NewBatchHandler(service service.BatchService, logger zerolog.Logger) *BatchHandler {
	return &BatchHandler{
		service: service,
		logger:  logger.With().Str("component", "batch_handler").Logger(),
	}
}

// Register attaches batch routes to the router group.
func (h *BatchHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *BatchHandler) list(c *fiber.Ctx) error {
	batches, err := h.service.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list batches")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list batches")
	}
	return utils.SendSuccess(c, "batches retrieved", batches)
}

func (h *BatchHandler) create(c *fiber.Ctx) error {
	var payload dto.BatchCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	batch, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchNameTaken):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrBatchYearOrder):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create batch")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create batch")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "batch created", batch)
}

func (h *BatchHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.BatchUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	batch, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "batch not found")
		case errors.Is(err, service.ErrBatchNameTaken):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrBatchYearOrder):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update batch")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update batch")
		}
	}

	return utils.SendSuccess(c, "batch updated", batch)
}

func (h *BatchHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrBatchNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "batch not found")
		case errors.Is(err, service.ErrBatchHasClasses):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete batch")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete batch")
		}
	}

	return utils.SendSuccess(c, "batch deleted", nil)
}

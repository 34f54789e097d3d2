package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/repository"
	"github.com/schooldesk/schooldesk-api/internal/service"
	"github.com/schooldesk/schooldesk-api/internal/utils"
)

// FeeStructureHandler wires fee structure endpoints.
type FeeStructureHandler struct {
	service service.FeeStructureService
	logger  zerolog.Logger
}

// NewFeeStructureHandler constructs the handler.
func NewFeeStructureHandler(service service.FeeStructureService, logger zerolog.Logger) *FeeStructureHandler {
	return &FeeStructureHandler{
		service: service,
		logger:  logger.With().Str("component", "fee_structure_handler").Logger(),
	}
}

// Register attaches fee structure routes to the router group.
func (h *FeeStructureHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *FeeStructureHandler) list(c *fiber.Ctx) error {
	batchID, err := parseQueryUintPtr(c, "batch_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid batch_id")
	}
	classID, err := parseQueryUintPtr(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class_id")
	}

	fees, err := h.service.List(c.Context(), repository.FeeStructureFilter{BatchID: batchID, ClassID: classID})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list fee structures")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list fee structures")
	}
	return utils.SendSuccess(c, "fee structures retrieved", fees)
}

func (h *FeeStructureHandler) create(c *fiber.Ctx) error {
	var payload dto.FeeStructureCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	fee, err := h.service.Create(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "class not found")
		case errors.Is(err, service.ErrFeeStructureExists):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidDueDate), isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create fee structure")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create fee structure")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "fee structure created", fee)
}

func (h *FeeStructureHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.FeeStructureUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	fee, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeeStructureNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "fee structure not found")
		case errors.Is(err, service.ErrFeeStructureExists):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidDueDate), isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update fee structure")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update fee structure")
		}
	}

	return utils.SendSuccess(c, "fee structure updated", fee)
}

func (h *FeeStructureHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrFeeStructureNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "fee structure not found")
		case errors.Is(err, service.ErrFeeStructureInUse):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete fee structure")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete fee structure")
		}
	}

	return utils.SendSuccess(c, "fee structure deleted", nil)
}

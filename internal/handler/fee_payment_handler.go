package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/service"
	"github.com/schooldesk/schooldesk-api/internal/utils"
)

// FeePaymentHandler wires the fee ledger endpoints: recording payments,
// listing collections and reading a student's derived payment status.
type FeePaymentHandler struct {
	service service.FeeLedgerService
	logger  zerolog.Logger
}

// NewFeePaymentHandler constructs the handler.
func NewFeePaymentHandler(service service.FeeLedgerService, logger zerolog.Logger) *FeePaymentHandler {
	return &FeePaymentHandler{
		service: service,
		logger:  logger.With().Str("component", "fee_payment_handler").Logger(),
	}
}

// Register attaches fee payment routes to the router group.
func (h *FeePaymentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.record)
	router.Get("/status/:studentId", h.paymentStatus)
}

func (h *FeePaymentHandler) list(c *fiber.Ctx) error {
	studentID, err := parseQueryUintPtr(c, "student_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student_id")
	}

	payments, err := h.service.ListPayments(c.Context(), studentID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list payments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list payments")
	}
	return utils.SendSuccess(c, "payments retrieved", payments)
}

func (h *FeePaymentHandler) record(c *fiber.Ctx) error {
	var payload dto.RecordPaymentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	payment, err := h.service.RecordPayment(c.Context(), payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLedgerStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, service.ErrLedgerFeeStructureNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "fee structure not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to record payment")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to record payment")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "payment recorded", payment)
}

func (h *FeePaymentHandler) paymentStatus(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	status, err := h.service.GetStudentPaymentStatus(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrLedgerStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute payment status")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute payment status")
	}

	return utils.SendSuccess(c, "payment status retrieved", status)
}

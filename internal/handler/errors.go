package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/nulln0ne/amm-estimator/internal/service"
	"github.com/nulln0ne/amm-estimator/pkg/amm"
)

// ErrInvalidQueryParameters indicates that the request query string could not
// be parsed into the expected structure.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrSameAddresses is returned when src and dst addresses are identical.
var ErrSameAddresses = fiber.NewError(fiber.StatusBadRequest, "src and dst addresses cannot be the same")

// ErrAmountRequired is returned when the amount parameter is missing.
var ErrAmountRequired = fiber.NewError(fiber.StatusBadRequest, "amount is required")

// ErrReservesRequired is returned when a quote omits the pool reserves.
var ErrReservesRequired = fiber.NewError(fiber.StatusBadRequest, "reserves are required")

var ErrSameTokenBadRequest = fiber.NewError(fiber.StatusBadRequest, "src and dst tokens cannot be the same")

var ErrPairMismatchBadRequest = fiber.NewError(fiber.StatusBadRequest, "pool does not trade src for dst")

// ErrEmptyReservesBadRequest maps empty-reserve pool state to a 400 error.
var ErrEmptyReservesBadRequest = fiber.NewError(fiber.StatusBadRequest, "pool has insufficient reserves")

// ErrEstimatesDisabled is returned by /estimate when no Ethereum node is
// configured.
var ErrEstimatesDisabled = fiber.NewError(fiber.StatusServiceUnavailable, "on-chain estimates are disabled")

// ErrEstimationFailedInternal signals a generic server-side estimation error.
var ErrEstimationFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "estimation failed")

// NewInvalidParameter returns a 400 Bad Request naming the offending field.
func NewInvalidParameter(field string, err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+": "+err.Error())
}

// NewAddressRequired returns a 400 Bad Request for a missing address field.
func NewAddressRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" address is required")
}

// NewInvalidAddress returns a 400 Bad Request for an invalid address format.
func NewInvalidAddress(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" address")
}

// handleServiceError maps service and pricing failures to HTTP errors. Bad
// input is a 400; a well-formed trade the curve cannot price is a 422.
func (h *BaseHandler) handleServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrSameToken):
		return ErrSameTokenBadRequest
	case errors.Is(err, service.ErrPairMismatch):
		return ErrPairMismatchBadRequest
	case errors.Is(err, service.ErrEmptyReserves):
		return ErrEmptyReservesBadRequest
	case errors.Is(err, amm.ErrInsufficientLiquidity),
		errors.Is(err, amm.ErrMathOverflow),
		errors.Is(err, amm.ErrConvergenceFailed):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrTooManyTokens),
		errors.Is(err, amm.ErrInvalidIndex),
		errors.Is(err, amm.ErrZeroAmount),
		errors.Is(err, amm.ErrPoolSizeTooSmall),
		errors.Is(err, amm.ErrUnknownModel):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error("service call failed", "err", err)
		return ErrEstimationFailedInternal
	}
}

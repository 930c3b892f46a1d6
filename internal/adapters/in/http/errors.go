package http

import (
	"errors"
	"net/http"

	"marketplace/internal/core/domain/model/feerule"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

type errorMapping struct {
	target  error
	status  int
	outcome string
}

// errorMappings is checked in order; the first target found in the chain wins.
var errorMappings = []errorMapping{
	{errs.ErrObjectNotFound, http.StatusNotFound, "not_found"},
	{errs.ErrForbidden, http.StatusForbidden, "forbidden"},
	{payment.ErrMalformedReference, http.StatusBadRequest, "malformed_reference"},
	{payment.ErrVerificationFailed, http.StatusBadRequest, "verification_failed"},
	{errs.ErrGatewayCommunication, http.StatusBadGateway, "gateway_unavailable"},
	{feerule.ErrOverlappingFeeRule, http.StatusConflict, "overlapping_fee_rule"},
	{settlement.ErrNothingToSettle, http.StatusUnprocessableEntity, "nothing_to_settle"},
	{settlement.ErrItemsAlreadyClaimed, http.StatusConflict, "items_already_claimed"},
	{errs.ErrInvalidStateTransition, http.StatusConflict, "invalid_state_transition"},
	{errs.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
	{errs.ErrObjectAlreadyExists, http.StatusConflict, "already_exists"},
	{ports.ErrLockNotAcquired, http.StatusConflict, "locked"},
	{errs.ErrValueIsRequired, http.StatusBadRequest, "invalid_request"},
	{errs.ErrValueIsInvalid, http.StatusBadRequest, "invalid_request"},
	{errs.ErrValueIsOutOfRange, http.StatusBadRequest, "invalid_request"},
}

func classify(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.outcome
		}
	}
	return http.StatusInternalServerError, "internal"
}

// Outcome is the metrics label for err.
func Outcome(err error) string {
	_, outcome := classify(err)
	return outcome
}

// writeError renders err. Internal errors are logged and never echoed to the client.
func (s *Server) writeError(c echo.Context, err error) error {
	status, outcome := classify(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "Request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		message = http.StatusText(status)
	}

	return c.JSON(status, ErrorResponse{Code: status, Outcome: outcome, Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Outcome: "invalid_request",
		Message: message,
	})
}

package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickup"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

const (
	msgSlotConflict   = "slot no longer available, please choose another"
	msgPickupRejected = "unable to confirm pickup"
	msgInvalidState   = "order is not in a valid state for this transition"
	msgMissingReason  = "cancellation requires a reason"
	msgForbidden      = "not allowed"
	msgNotFound       = "not found"
	msgConcurrent     = "order was changed concurrently, please retry"
	msgInvalidInput   = "invalid request"
	msgInternal       = "internal server error"
)

// mapError translates an application error into a response. Pickup rejections
// never carry detail so that a scanner learns nothing about foreign orders.
func mapError(err error) ErrorResponse {
	switch {
	case errors.Is(err, commands.ErrSlotConflict):
		return ErrorResponse{Code: http.StatusConflict, Message: msgSlotConflict}
	case errors.Is(err, pickup.ErrMalformed),
		errors.Is(err, pickup.ErrWrongDriver),
		errors.Is(err, pickup.ErrInvalidState):
		return ErrorResponse{Code: http.StatusUnprocessableEntity, Message: msgPickupRejected}
	case errors.Is(err, commands.ErrForbidden):
		return ErrorResponse{Code: http.StatusForbidden, Message: msgForbidden, Detail: err.Error()}
	case errors.Is(err, order.ErrMissingReason):
		return ErrorResponse{Code: http.StatusBadRequest, Message: msgMissingReason}
	case errors.Is(err, commands.ErrTransitionRequiresProtocol),
		errors.Is(err, order.ErrInvalidState):
		return ErrorResponse{Code: http.StatusUnprocessableEntity, Message: msgInvalidState, Detail: err.Error()}
	case errors.Is(err, errs.ErrObjectNotFound):
		return ErrorResponse{Code: http.StatusNotFound, Message: msgNotFound, Detail: err.Error()}
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return ErrorResponse{Code: http.StatusConflict, Message: msgConcurrent}
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ErrorResponse{Code: http.StatusBadRequest, Message: msgInvalidInput, Detail: err.Error()}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		resp := ErrorResponse{Code: httpErr.Code, Message: http.StatusText(httpErr.Code)}
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			resp.Message = msg
		}
		return resp
	}

	return ErrorResponse{Code: http.StatusInternalServerError, Message: msgInternal}
}

// newErrorHandler replaces echo's default error handler so that handler errors,
// binding failures and unknown routes share one body format.
func newErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := mapError(err)
		ctx := c.Request().Context()
		switch {
		case resp.Code >= http.StatusInternalServerError:
			log.Error(ctx, "request failed", err)
		case resp.Message == msgPickupRejected:
			// the command handler already logged the rejection reason
		case resp.Code != http.StatusNotFound:
			log.Warn(log.WithField(ctx, "error", err.Error()), "request rejected")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(resp.Code)
		} else {
			writeErr = c.JSON(resp.Code, resp)
		}
		if writeErr != nil {
			log.Error(ctx, "failed to write error response", writeErr)
		}
	}
}

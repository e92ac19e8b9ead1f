package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickup"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantDetail bool
	}{
		{"slot conflict", fmt.Errorf("assign: %w", commands.ErrSlotConflict), http.StatusConflict, false},
		{"malformed pickup", pickup.ErrMalformed, http.StatusUnprocessableEntity, false},
		{"wrong driver", pickup.ErrWrongDriver, http.StatusUnprocessableEntity, false},
		{"pickup state", pickup.ErrInvalidState, http.StatusUnprocessableEntity, false},
		{"forbidden", commands.ErrForbidden, http.StatusForbidden, true},
		{
			"missing reason",
			&order.TransitionError{From: order.Placed, To: order.Cancelled, Kind: order.ErrMissingReason},
			http.StatusBadRequest,
			false,
		},
		{
			"already terminal",
			&order.TransitionError{From: order.Delivered, To: order.Cancelled, Kind: order.ErrAlreadyTerminal},
			http.StatusUnprocessableEntity,
			true,
		},
		{"protocol only", commands.ErrTransitionRequiresProtocol, http.StatusUnprocessableEntity, true},
		{"not found", errs.NewObjectNotFoundError("order", "TRK-0000000000"), http.StatusNotFound, true},
		{"version", errs.NewVersionIsInvalidError("order"), http.StatusConflict, false},
		{"required", kernel.ErrUUIDIsNotConstructed, http.StatusBadRequest, true},
		{"out of range", errs.NewValueIsOutOfRangeError("duration", 1, 5, 1440), http.StatusBadRequest, true},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "missing actor identity"), http.StatusUnauthorized, false},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := mapError(tt.err)

			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Message)
			if tt.wantDetail {
				assert.NotEmpty(t, resp.Detail)
			} else {
				assert.Empty(t, resp.Detail)
			}
			assert.NotContains(t, resp.Message, "connection reset")
		})
	}
}

func TestLoadOpenAPIDescribesEveryRoute(t *testing.T) {
	doc, err := LoadOpenAPI()
	if !assert.NoError(t, err) {
		return
	}

	for _, path := range []string{
		"/api/v1/orders",
		"/api/v1/tracking/{trackingId}",
		"/api/v1/orders/{trackingId}/assignment",
		"/api/v1/orders/{trackingId}/transitions",
		"/api/v1/orders/{trackingId}/pickup-token",
		"/api/v1/pickups",
		"/api/v1/drivers/{driverId}/availability",
		"/api/v1/drivers/{driverId}/availability/{blockId}",
		"/api/v1/drivers/{driverId}/free-slots",
	} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
}

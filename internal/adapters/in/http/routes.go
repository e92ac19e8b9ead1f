package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// (GET /api/v1/tracking/{trackingId})
	GetTracking(ctx echo.Context, trackingID string) error
	// (POST /api/v1/orders/{trackingId}/assignment)
	AssignDriver(ctx echo.Context, trackingID string) error
	// (POST /api/v1/orders/{trackingId}/transitions)
	TransitionOrder(ctx echo.Context, trackingID string) error
	// (POST /api/v1/orders/{trackingId}/pickup-token)
	IssuePickupToken(ctx echo.Context, trackingID string) error
	// (POST /api/v1/pickups)
	ConfirmPickup(ctx echo.Context) error
	// (GET /api/v1/drivers/{driverId}/availability)
	GetDriverAvailability(ctx echo.Context, driverID string, params GetDriverAvailabilityParams) error
	// (POST /api/v1/drivers/{driverId}/availability)
	AddAvailabilityBlock(ctx echo.Context, driverID string) error
	// (DELETE /api/v1/drivers/{driverId}/availability/{blockId})
	DeleteAvailabilityBlock(ctx echo.Context, driverID string, blockID string) error
	// (GET /api/v1/drivers/{driverId}/free-slots)
	GetFreeSlots(ctx echo.Context, driverID string, params GetFreeSlotsParams) error
}

type GetDriverAvailabilityParams struct {
	From time.Time `form:"from" json:"from"`
	To   time.Time `form:"to" json:"to"`
}

type GetFreeSlotsParams struct {
	Date               string  `form:"date" json:"date"`
	Tz                 *string `form:"tz,omitempty" json:"tz,omitempty"`
	MinDurationMinutes *int    `form:"min_duration_minutes,omitempty" json:"min_duration_minutes,omitempty"`
}

// ServerInterfaceWrapper binds path and query parameters before calling Handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetTracking(ctx echo.Context) error {
	trackingID, err := bindPath(ctx, "trackingId")
	if err != nil {
		return err
	}
	return w.Handler.GetTracking(ctx, trackingID)
}

func (w *ServerInterfaceWrapper) AssignDriver(ctx echo.Context) error {
	trackingID, err := bindPath(ctx, "trackingId")
	if err != nil {
		return err
	}
	return w.Handler.AssignDriver(ctx, trackingID)
}

func (w *ServerInterfaceWrapper) TransitionOrder(ctx echo.Context) error {
	trackingID, err := bindPath(ctx, "trackingId")
	if err != nil {
		return err
	}
	return w.Handler.TransitionOrder(ctx, trackingID)
}

func (w *ServerInterfaceWrapper) IssuePickupToken(ctx echo.Context) error {
	trackingID, err := bindPath(ctx, "trackingId")
	if err != nil {
		return err
	}
	return w.Handler.IssuePickupToken(ctx, trackingID)
}

func (w *ServerInterfaceWrapper) ConfirmPickup(ctx echo.Context) error {
	return w.Handler.ConfirmPickup(ctx)
}

func (w *ServerInterfaceWrapper) GetDriverAvailability(ctx echo.Context) error {
	driverID, err := bindPath(ctx, "driverId")
	if err != nil {
		return err
	}

	var params GetDriverAvailabilityParams
	if err = runtime.BindQueryParameter("form", true, true, "from", ctx.QueryParams(), &params.From); err != nil {
		return invalidParameter("from", err)
	}
	if err = runtime.BindQueryParameter("form", true, true, "to", ctx.QueryParams(), &params.To); err != nil {
		return invalidParameter("to", err)
	}

	return w.Handler.GetDriverAvailability(ctx, driverID, params)
}

func (w *ServerInterfaceWrapper) AddAvailabilityBlock(ctx echo.Context) error {
	driverID, err := bindPath(ctx, "driverId")
	if err != nil {
		return err
	}
	return w.Handler.AddAvailabilityBlock(ctx, driverID)
}

func (w *ServerInterfaceWrapper) DeleteAvailabilityBlock(ctx echo.Context) error {
	driverID, err := bindPath(ctx, "driverId")
	if err != nil {
		return err
	}
	blockID, err := bindPath(ctx, "blockId")
	if err != nil {
		return err
	}
	return w.Handler.DeleteAvailabilityBlock(ctx, driverID, blockID)
}

func (w *ServerInterfaceWrapper) GetFreeSlots(ctx echo.Context) error {
	driverID, err := bindPath(ctx, "driverId")
	if err != nil {
		return err
	}

	var params GetFreeSlotsParams
	if err = runtime.BindQueryParameter("form", true, true, "date", ctx.QueryParams(), &params.Date); err != nil {
		return invalidParameter("date", err)
	}
	if err = runtime.BindQueryParameter("form", true, false, "tz", ctx.QueryParams(), &params.Tz); err != nil {
		return invalidParameter("tz", err)
	}
	if err = runtime.BindQueryParameter(
		"form", true, false, "min_duration_minutes", ctx.QueryParams(), &params.MinDurationMinutes,
	); err != nil {
		return invalidParameter("min_duration_minutes", err)
	}

	return w.Handler.GetFreeSlots(ctx, driverID, params)
}

func bindPath(ctx echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", invalidParameter(name, err)
	}
	return value, nil
}

func invalidParameter(name string, err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used for registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts every operation. authenticated is applied to the
// operations that act on behalf of an actor.
func RegisterHandlers(router EchoRouter, si ServerInterface, authenticated ...echo.MiddlewareFunc) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.POST("/api/v1/orders", w.CreateOrder, authenticated...)
	router.GET("/api/v1/tracking/:trackingId", w.GetTracking)
	router.POST("/api/v1/orders/:trackingId/assignment", w.AssignDriver, authenticated...)
	router.POST("/api/v1/orders/:trackingId/transitions", w.TransitionOrder, authenticated...)
	router.POST("/api/v1/orders/:trackingId/pickup-token", w.IssuePickupToken, authenticated...)
	router.POST("/api/v1/pickups", w.ConfirmPickup, authenticated...)
	router.GET("/api/v1/drivers/:driverId/availability", w.GetDriverAvailability)
	router.POST("/api/v1/drivers/:driverId/availability", w.AddAvailabilityBlock, authenticated...)
	router.DELETE("/api/v1/drivers/:driverId/availability/:blockId", w.DeleteAvailabilityBlock, authenticated...)
	router.GET("/api/v1/drivers/:driverId/free-slots", w.GetFreeSlots)
}

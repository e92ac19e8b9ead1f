package http

import (
	"context"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// DefaultMinSlotDuration is used by free-slot lookups without min_duration_minutes.
const DefaultMinSlotDuration = 30 * time.Minute

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	AssignDriverHandler interface {
		Handle(ctx context.Context, cmd commands.AssignDriverCommand) (*order.Order, error)
	}
	TransitionOrderHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (*order.StatusLogEntry, error)
	}
	IssuePickupTokenHandler interface {
		Handle(ctx context.Context, cmd commands.IssuePickupTokenCommand) (commands.IssuedPickupToken, error)
	}
	ConfirmPickupHandler interface {
		Handle(ctx context.Context, cmd commands.ConfirmPickupCommand) (*order.StatusLogEntry, error)
	}
	AddAvailabilityBlockHandler interface {
		Handle(ctx context.Context, cmd commands.AddAvailabilityBlockCommand) (*availability.Block, error)
	}
	DeleteAvailabilityBlockHandler interface {
		Handle(ctx context.Context, cmd commands.DeleteAvailabilityBlockCommand) error
	}
	GetOrderTrackingHandler interface {
		Handle(ctx context.Context, query queries.GetOrderTrackingQuery) (*queries.GetOrderTrackingQueryResponse, error)
	}
	GetDriverAvailabilityHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetDriverAvailabilityQuery,
		) (*queries.GetDriverAvailabilityQueryResponse, error)
	}
	GetFreeSlotsHandler interface {
		Handle(ctx context.Context, query queries.GetFreeSlotsQuery) (*queries.GetFreeSlotsQueryResponse, error)
	}
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder             CreateOrderHandler
	AssignDriver            AssignDriverHandler
	TransitionOrder         TransitionOrderHandler
	IssuePickupToken        IssuePickupTokenHandler
	ConfirmPickup           ConfirmPickupHandler
	AddAvailabilityBlock    AddAvailabilityBlockHandler
	DeleteAvailabilityBlock DeleteAvailabilityBlockHandler
	GetOrderTracking        GetOrderTrackingHandler
	GetDriverAvailability   GetDriverAvailabilityHandler
	GetFreeSlots            GetFreeSlotsHandler
}

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	handlers        Handlers
	minSlotDuration time.Duration
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates the server. A non-positive minSlotDuration falls back to
// DefaultMinSlotDuration.
func NewServer(handlers Handlers, minSlotDuration time.Duration) *Server {
	if minSlotDuration <= 0 {
		minSlotDuration = DefaultMinSlotDuration
	}
	return &Server{handlers: handlers, minSlotDuration: minSlotDuration}
}

// CreateOrder handles POST /api/v1/orders. Clients order for themselves;
// dispatchers must name the client.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var body NewOrder
	if err = bindBody(ctx, &body); err != nil {
		return err
	}

	clientID := actor.ID()
	if body.ClientID != "" {
		if clientID, err = parseUUID("client_id", body.ClientID); err != nil {
			return err
		}
	} else if !actor.Is(kernel.RoleClient) {
		return errs.NewValueIsRequiredError("client_id")
	}

	cmd, err := commands.NewCreateOrderCommand(
		actor,
		clientID,
		body.PickupAt,
		time.Duration(body.EstimatedDurationMinutes)*time.Minute,
	)
	if err != nil {
		return err
	}

	o, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, orderFromDomain(o))
}

// GetTracking handles GET /api/v1/tracking/{trackingId}.
func (s *Server) GetTracking(ctx echo.Context, trackingID string) error {
	id, err := kernel.TrackingIDFromString(trackingID)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderTrackingQuery(id)
	if err != nil {
		return err
	}

	resp, err := s.handlers.GetOrderTracking.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, trackingFromQuery(resp))
}

// AssignDriver handles POST /api/v1/orders/{trackingId}/assignment.
func (s *Server) AssignDriver(ctx echo.Context, trackingID string) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := kernel.TrackingIDFromString(trackingID)
	if err != nil {
		return err
	}

	var body Assignment
	if err = bindBody(ctx, &body); err != nil {
		return err
	}
	driverID, err := parseUUID("driver_id", body.DriverID)
	if err != nil {
		return err
	}
	slot, err := kernel.NewInterval(body.SlotStart, body.SlotEnd)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignDriverCommand(actor, id, driverID, slot)
	if err != nil {
		return err
	}

	o, err := s.handlers.AssignDriver.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, orderFromDomain(o))
}

// TransitionOrder handles POST /api/v1/orders/{trackingId}/transitions.
func (s *Server) TransitionOrder(ctx echo.Context, trackingID string) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := kernel.TrackingIDFromString(trackingID)
	if err != nil {
		return err
	}

	var body TransitionRequest
	if err = bindBody(ctx, &body); err != nil {
		return err
	}
	target, err := order.StatusFromString(body.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewTransitionOrderCommand(actor, id, target, body.Reason, body.NoDriverAvailability, body.PickupAt)
	if err != nil {
		return err
	}

	entry, err := s.handlers.TransitionOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, statusEventFromDomain(entry))
}

// IssuePickupToken handles POST /api/v1/orders/{trackingId}/pickup-token.
func (s *Server) IssuePickupToken(ctx echo.Context, trackingID string) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := kernel.TrackingIDFromString(trackingID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewIssuePickupTokenCommand(actor, id)
	if err != nil {
		return err
	}

	issued, err := s.handlers.IssuePickupToken.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	resp := PickupToken{Payload: issued.Payload}
	if !issued.ExpiresAt.IsZero() {
		expiresAt := issued.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}

	return ctx.JSON(http.StatusCreated, resp)
}

// ConfirmPickup handles POST /api/v1/pickups. The scanning driver is the actor.
func (s *Server) ConfirmPickup(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var body PickupScan
	if err = bindBody(ctx, &body); err != nil {
		return err
	}

	cmd, err := commands.NewConfirmPickupCommand(actor, actor.ID(), body.Payload)
	if err != nil {
		return err
	}

	entry, err := s.handlers.ConfirmPickup.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, statusEventFromDomain(entry))
}

// GetDriverAvailability handles GET /api/v1/drivers/{driverId}/availability.
func (s *Server) GetDriverAvailability(ctx echo.Context, driverID string, params GetDriverAvailabilityParams) error {
	id, err := parseUUID("driverId", driverID)
	if err != nil {
		return err
	}

	query, err := queries.NewGetDriverAvailabilityQuery(id, params.From, params.To)
	if err != nil {
		return err
	}

	resp, err := s.handlers.GetDriverAvailability.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, availabilityFromQuery(resp))
}

// AddAvailabilityBlock handles POST /api/v1/drivers/{driverId}/availability.
func (s *Server) AddAvailabilityBlock(ctx echo.Context, driverID string) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := parseUUID("driverId", driverID)
	if err != nil {
		return err
	}

	var body NewAvailabilityBlock
	if err = bindBody(ctx, &body); err != nil {
		return err
	}
	interval, err := kernel.NewInterval(body.Start, body.End)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAddAvailabilityBlockCommand(actor, id, interval, body.Label)
	if err != nil {
		return err
	}

	block, err := s.handlers.AddAvailabilityBlock.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, blockFromDomain(block))
}

// DeleteAvailabilityBlock handles DELETE /api/v1/drivers/{driverId}/availability/{blockId}.
func (s *Server) DeleteAvailabilityBlock(ctx echo.Context, driverID string, blockID string) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	driver, err := parseUUID("driverId", driverID)
	if err != nil {
		return err
	}
	block, err := parseUUID("blockId", blockID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteAvailabilityBlockCommand(actor, driver, block)
	if err != nil {
		return err
	}

	if err = s.handlers.DeleteAvailabilityBlock.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetFreeSlots handles GET /api/v1/drivers/{driverId}/free-slots.
func (s *Server) GetFreeSlots(ctx echo.Context, driverID string, params GetFreeSlotsParams) error {
	id, err := parseUUID("driverId", driverID)
	if err != nil {
		return err
	}

	timezone := ""
	if params.Tz != nil {
		timezone = *params.Tz
	}
	minDuration := s.minSlotDuration
	if params.MinDurationMinutes != nil {
		minDuration = time.Duration(*params.MinDurationMinutes) * time.Minute
	}

	query, err := queries.NewGetFreeSlotsQuery(id, params.Date, timezone, minDuration)
	if err != nil {
		return err
	}

	resp, err := s.handlers.GetFreeSlots.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, freeSlotsFromQuery(resp, params.Date))
}

func bindBody(ctx echo.Context, dest any) error {
	if err := ctx.Bind(dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return ctx.Validate(dest)
}

func parseUUID(param, value string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(value)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}

package http

import (
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
	HeaderRequestID = echo.HeaderXRequestID

	actorContextKey = "actor"
)

// requestLogging attaches a request id and the route to the logger context and
// logs the outcome of every request.
func requestLogging(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			reqID := req.Header.Get(HeaderRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, reqID)

			ctx := log.WithRequestID(req.Context(), reqID)
			ctx = log.WithFields(ctx, map[string]any{
				"method": req.Method,
				"path":   req.URL.Path,
			})
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			ctx = log.WithFields(c.Request().Context(), map[string]any{
				"status":      c.Response().Status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			log.Info(ctx, "request.complete")

			return nil
		}
	}
}

// identity turns the headers set by the gateway into a kernel.Actor. The system
// role is reserved for background jobs and is refused here.
func identity(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawID := c.Request().Header.Get(HeaderActorID)
			rawRole := c.Request().Header.Get(HeaderActorRole)
			if rawID == "" || rawRole == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing actor identity")
			}

			id, err := kernel.UUIDFromString(rawID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid actor identity")
			}
			role := kernel.Role(rawRole)
			if role == kernel.RoleSystem {
				return echo.NewHTTPError(http.StatusForbidden, "system role is not accepted from clients")
			}

			actor, err := kernel.NewActor(id, role)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid actor identity")
			}

			c.Set(actorContextKey, actor)
			ctx := log.WithActor(c.Request().Context(), actor.Role().String(), actor.ID().String())
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// actorFrom returns the actor placed by identity.
func actorFrom(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, errs.NewValueIsRequiredError("actor")
	}
	return actor, nil
}

package http

import (
	"fmt"
	"net/http"

	"fulfillment/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type RouterOptions struct {
	Logger *logger.Logger
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Debug lowers the echo logger to DEBUG.
	Debug bool
}

// NewRouter builds the echo instance serving the API, its description and the
// operational endpoints.
func NewRouter(server ServerInterface, opts RouterOptions) (*echo.Echo, error) {
	appLog := opts.Logger
	if appLog == nil {
		appLog = logger.Nop()
	}

	doc, err := LoadOpenAPI()
	if err != nil {
		return nil, err
	}
	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to render openapi document: %w", err)
	}
	registerSwagger(docJSON)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.INFO)
	if opts.Debug {
		e.Logger.SetLevel(log.DEBUG)
	}
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = newErrorHandler(appLog)

	e.Use(middleware.Recover())
	e.Use(requestLogging(appLog))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "healthy")
	})
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, docJSON)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	RegisterHandlers(e, server, identity(appLog))

	return e, nil
}

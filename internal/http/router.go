package http

import (
	"errors"
	nethttp "net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/moldandyeast/tinyfeed/docs"
	"github.com/moldandyeast/tinyfeed/internal/handler"
	"github.com/moldandyeast/tinyfeed/pkg/logger"
)

func NewRouter(
	feedHandler *handler.FeedHandler,
	pageHandler *handler.PageHandler,
	staticDir string,
	enableSwagger bool,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = newErrorHandler(pageHandler)

	e.Use(middleware.Recover())
	e.Use(RequestIDMiddleware())
	e.Use(RequestLoggerMiddleware())
	e.Use(MetricsMiddleware())
	e.Use(SecurityHeaders())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(nethttp.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if enableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := e.Group("/api")
	feedHandler.RegisterCreateRoute(api)
	feedHandler.RegisterPublicRoutes(api)
	feedHandler.RegisterProtectedRoutes(api, RequireWriteKey())

	pageHandler.RegisterRoutes(e)
	registerStatic(e, staticDir)

	return e
}

// newErrorHandler answers unmatched page paths with the HTML not-found page
// and everything else with the JSON error body.
func newErrorHandler(pageHandler *handler.PageHandler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := nethttp.StatusInternalServerError
		message := "Internal error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = nethttp.StatusText(status)
			}
		}

		if status >= nethttp.StatusInternalServerError {
			logger.Error("unhandled request error", "module", "http", "action", "request", "resource", "http", "result", "failed", "path", c.Request().URL.Path, "error", err)
			message = "Internal error"
		}

		if status == nethttp.StatusNotFound && pageHandler != nil && !isAPIPath(c.Request().URL.Path) {
			if renderErr := pageHandler.NotFound(c); renderErr != nil {
				logger.Error("render not found page failed", "module", "http", "action", "request", "resource", "page", "result", "failed", "error", renderErr)
			}
			return
		}
		if c.Request().Method == nethttp.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = handler.Error(c, status, message)
	}
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

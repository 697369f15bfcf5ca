package http

import (
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/moldandyeast/tinyfeed/internal/handler"
	"github.com/moldandyeast/tinyfeed/internal/metrics"
	"github.com/moldandyeast/tinyfeed/pkg/logger"
)

const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware keeps an incoming X-Request-ID or assigns a new UUID.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(HeaderRequestID))
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			c.Request().Header.Set(HeaderRequestID, id)
			c.Response().Header().Set(HeaderRequestID, id)
			return next(c)
		}
	}
}

// RequestLoggerMiddleware logs one line per request, leveled by status class.
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			args := []any{
				"module", "http",
				"action", "request",
				"resource", "http",
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(HeaderRequestID),
			}
			switch {
			case status >= nethttp.StatusInternalServerError:
				logger.Error("http request", append(args, "result", "failed")...)
			case status >= nethttp.StatusBadRequest:
				logger.Warn("http request", append(args, "result", "failed")...)
			default:
				logger.Info("http request", append(args, "result", "ok")...)
			}
			return nil
		}
	}
}

// MetricsMiddleware records request counts and latency by route template.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordHTTPRequest(c.Request().Method, route, strconv.Itoa(c.Response().Status), time.Since(start).Seconds())
			return nil
		}
	}
}

// RequireWriteKey rejects a request without a write key before any handler runs.
func RequireWriteKey() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.TrimSpace(c.Request().Header.Get(handler.HeaderWriteKey)) == "" {
				return handler.Error(c, nethttp.StatusUnauthorized, "Write key required")
			}
			return next(c)
		}
	}
}

// SecurityHeaders sets the response headers every page and document shares.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			return next(c)
		}
	}
}

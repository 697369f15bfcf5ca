package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moldandyeast/tinyfeed/internal/service"
	"github.com/moldandyeast/tinyfeed/pkg/logger"
)

const (
	KindNotFound           = "not_found"
	KindUnauthorized       = "unauthorized"
	KindRateLimited        = "rate_limited"
	KindInvalidInput       = "invalid_input"
	KindAlreadyInitialized = "already_initialized"
	KindInternal           = "internal"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// Error writes a JSON error body with the given status.
func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message, Kind: kindForStatus(status)})
}

func writeServiceError(c echo.Context, err error) error {
	var rateLimited *service.RateLimitError
	switch {
	case errors.As(err, &rateLimited):
		c.Response().Header().Set("Retry-After", strconv.Itoa(rateLimited.RetryAfter))
		return c.JSON(http.StatusTooManyRequests, errorResponse{Error: rateLimited.Error(), Kind: KindRateLimited})
	case errors.Is(err, service.ErrPostNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Post not found", Kind: KindNotFound})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Feed not found", Kind: KindNotFound})
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized", Kind: KindUnauthorized})
	case errors.Is(err, service.ErrContentRequired):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Content required", Kind: KindInvalidInput})
	case errors.Is(err, service.ErrInvalid):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request", Kind: KindInvalidInput})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, errorResponse{Error: "Feed already exists", Kind: KindAlreadyInitialized})
	default:
		if !errors.Is(err, service.ErrInternal) {
			logger.Error("unexpected handler error", "module", "handler", "action", "respond", "resource", "http", "result", "failed", "path", c.Path(), "error", err)
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal error", Kind: KindInternal})
	}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusBadRequest:
		return KindInvalidInput
	case http.StatusConflict:
		return KindAlreadyInitialized
	default:
		if status >= http.StatusInternalServerError {
			return KindInternal
		}
		return ""
	}
}

package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/moldandyeast/tinyfeed/internal/handler"
	gh "github.com/moldandyeast/tinyfeed/internal/http"
)

func TestRequireWriteKey(t *testing.T) {
	mw := gh.RequireWriteKey()
	e := echo.New()
	next := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	t.Run("Missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, mw(next)(c))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Write key required")
	})

	t.Run("Blank", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(handler.HeaderWriteKey, "   ")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, mw(next)(c))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(handler.HeaderWriteKey, "secret")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, mw(next)(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ok", rec.Body.String())
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	mw := gh.RequestIDMiddleware()
	e := echo.New()
	next := func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}

	t.Run("Generated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, mw(next)(e.NewContext(req, rec)))
		require.Len(t, rec.Header().Get(gh.HeaderRequestID), 36)
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(gh.HeaderRequestID, "req-1")
		rec := httptest.NewRecorder()
		require.NoError(t, mw(next)(e.NewContext(req, rec)))
		require.Equal(t, "req-1", rec.Header().Get(gh.HeaderRequestID))
	})
}

func TestRequestLoggerMiddleware_StatusBranches(t *testing.T) {
	e := echo.New()
	mw := gh.RequestLoggerMiddleware()

	tests := []struct {
		name       string
		statusCode int
	}{
		{name: "ok", statusCode: http.StatusOK},
		{name: "client_error", statusCode: http.StatusBadRequest},
		{name: "server_error", statusCode: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := func(c echo.Context) error {
				return c.JSON(tc.statusCode, map[string]string{"status": "ok"})
			}

			err := mw(handler)(c)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, rec.Code)
		})
	}
}

func TestRequestLoggerMiddleware_HandlerError(t *testing.T) {
	e := echo.New()
	mw := gh.RequestLoggerMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMetricsMiddleware(t *testing.T) {
	e := echo.New()
	mw := gh.MetricsMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.String(http.StatusAccepted, "queued")
	})(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	err := gh.SecurityHeaders()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(e.NewContext(req, rec))
	require.NoError(t, err)
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

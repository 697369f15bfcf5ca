package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moldandyeast/tinyfeed/internal/hashutil"
	"github.com/moldandyeast/tinyfeed/internal/metrics"
	"github.com/moldandyeast/tinyfeed/internal/model"
	"github.com/moldandyeast/tinyfeed/internal/pages"
	"github.com/moldandyeast/tinyfeed/internal/render"
	"github.com/moldandyeast/tinyfeed/internal/service"
	"github.com/moldandyeast/tinyfeed/internal/urlutil"
	"github.com/moldandyeast/tinyfeed/pkg/logger"
)

const (
	FormatRSS  = "rss"
	FormatJSON = "json"
	FormatAtom = "atom"
	FormatHTML = "html"

	MIMERSS      = "application/rss+xml; charset=utf-8"
	MIMEJSONFeed = "application/feed+json; charset=utf-8"
	MIMEAtom     = "application/atom+xml; charset=utf-8"

	feedCacheControl = "public, max-age=300"
)

// PageHandler serves the HTML pages and the subscribable feed documents.
type PageHandler struct {
	service  service.FeedService
	renderer *pages.Renderer
	baseURL  string
	now      func() time.Time
}

// NewPageHandler builds the page handler. baseURL may be empty to derive it
// from each request; now may be nil to use the wall clock.
func NewPageHandler(service service.FeedService, renderer *pages.Renderer, baseURL string, now func() time.Time) *PageHandler {
	if now == nil {
		now = time.Now
	}
	return &PageHandler{service: service, renderer: renderer, baseURL: baseURL, now: now}
}

func (h *PageHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.static(pages.PageLanding))
	e.GET("/home", h.static(pages.PageHome))
	e.GET("/contacts", h.static(pages.PageContacts))
	e.GET("/import", h.static(pages.PageImport))
	e.GET("/f/:file", h.Feed)
}

func (h *PageHandler) static(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.page(c, http.StatusOK, name, pages.View{BaseURL: h.base(c)})
	}
}

// NotFound renders the HTML not-found page.
func (h *PageHandler) NotFound(c echo.Context) error {
	return h.page(c, http.StatusNotFound, pages.PageNotFound, pages.View{BaseURL: h.base(c)})
}

// Feed serves /f/{id} as HTML and /f/{id}.rss, .json and .atom as feed documents.
func (h *PageHandler) Feed(c echo.Context) error {
	raw, format := splitFeedFile(c.Param("file"))
	if format == "" {
		return h.NotFound(c)
	}

	id, err := normalizeFeedID(raw)
	if err != nil {
		return h.feedError(c, format, service.ErrFeedNotFound)
	}
	feed, err := h.service.ReadPublic(c.Request().Context(), id)
	if err != nil {
		return h.feedError(c, format, err)
	}

	base := h.base(c)
	now := h.now()
	if format == FormatHTML {
		metrics.RecordRender(FormatHTML)
		return h.page(c, http.StatusOK, pages.PageFeed, pages.NewFeedView(feed, base, now))
	}

	body, contentType, err := renderFeed(feed, format, urlutil.FeedURL(base, id), now)
	if err != nil {
		logger.Error("render feed failed", "module", "handler", "action", "render", "resource", "feed", "result", "failed", "feed_id", id, "format", format, "error", err)
		return writeServiceError(c, service.ErrInternal)
	}
	metrics.RecordRender(format)
	return writeCached(c, contentType, body)
}

func renderFeed(feed model.PublicFeed, format, feedURL string, now time.Time) ([]byte, string, error) {
	switch format {
	case FormatRSS:
		body, err := render.RSS(feed, feedURL, now)
		return body, MIMERSS, err
	case FormatJSON:
		body, err := render.JSONFeed(feed, feedURL)
		return body, MIMEJSONFeed, err
	default:
		body, err := render.Atom(feed, feedURL, now)
		return body, MIMEAtom, err
	}
}

// writeCached sends body with a strong ETag and answers a matching
// If-None-Match with 304.
func writeCached(c echo.Context, contentType string, body []byte) error {
	etag := hashutil.ETag(body)
	header := c.Response().Header()
	header.Set("Cache-Control", feedCacheControl)
	header.Set("ETag", etag)
	if match := c.Request().Header.Get("If-None-Match"); match != "" && match == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(http.StatusOK, contentType, body)
}

func (h *PageHandler) feedError(c echo.Context, format string, err error) error {
	if format != FormatHTML {
		return writeServiceError(c, err)
	}
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInvalid) {
		return h.NotFound(c)
	}
	return writeServiceError(c, err)
}

func (h *PageHandler) page(c echo.Context, status int, name string, view pages.View) error {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, view); err != nil {
		logger.Error("render page failed", "module", "handler", "action", "render", "resource", "page", "result", "failed", "page", name, "error", err)
		return c.String(http.StatusInternalServerError, "Internal error")
	}
	return c.HTMLBlob(status, buf.Bytes())
}

func (h *PageHandler) base(c echo.Context) string {
	return urlutil.BaseURL(h.baseURL, c.Scheme(), c.Request().Host)
}

// splitFeedFile maps "abc.rss" to ("abc", "rss") and a bare id to FormatHTML.
// Unknown extensions yield an empty format.
func splitFeedFile(file string) (string, string) {
	id, ext, found := strings.Cut(file, ".")
	if !found {
		return id, FormatHTML
	}
	switch strings.ToLower(ext) {
	case FormatRSS, FormatJSON, FormatAtom:
		return id, strings.ToLower(ext)
	default:
		return id, ""
	}
}

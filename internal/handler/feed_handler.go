package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moldandyeast/tinyfeed/internal/model"
	"github.com/moldandyeast/tinyfeed/internal/render"
	"github.com/moldandyeast/tinyfeed/internal/service"
)

// maxBodyBytes caps JSON request bodies; the largest valid post is well below it.
const maxBodyBytes = 64 << 10

type FeedHandler struct {
	service service.FeedService
}

type createFeedResponse struct {
	ID       string `json:"id"`
	WriteKey string `json:"writeKey"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	About *string `json:"about"`
}

type createPostRequest struct {
	Content string  `json:"content"`
	URL     *string `json:"url"`
}

type feedResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	About     string              `json:"about"`
	CreatedAt int64               `json:"createdAt"`
	Posts     []render.ExportPost `json:"posts"`
}

func NewFeedHandler(service service.FeedService) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) RegisterCreateRoute(g *echo.Group) {
	g.POST("/feed", h.Create)
}

func (h *FeedHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/feed/:id", h.Get)
}

// RegisterProtectedRoutes mounts the routes that need a write key. The caller
// supplies the gate that rejects requests without one.
func (h *FeedHandler) RegisterProtectedRoutes(g *echo.Group, gate ...echo.MiddlewareFunc) {
	g.PATCH("/feed/:id", h.UpdateProfile, gate...)
	g.POST("/feed/:id/post", h.CreatePost, gate...)
	g.DELETE("/feed/:id/post/:postId", h.DeletePost, gate...)
	g.GET("/feed/:id/export", h.Export, gate...)
}

// Create godoc
// @Summary Create a feed
// @Tags feeds
// @Produce json
// @Success 200 {object} createFeedResponse
// @Router /feed [post]
func (h *FeedHandler) Create(c echo.Context) error {
	creds, err := h.service.Create(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, createFeedResponse{ID: creds.ID, WriteKey: creds.WriteKey})
}

// Get godoc
// @Summary Read a feed
// @Tags feeds
// @Produce json
// @Param id path string true "Feed id"
// @Success 200 {object} feedResponse
// @Failure 404 {object} errorResponse
// @Router /feed/{id} [get]
func (h *FeedHandler) Get(c echo.Context) error {
	id, err := parseFeedID(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	feed, err := h.service.ReadPublic(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toFeedResponse(feed))
}

// UpdateProfile godoc
// @Summary Update name and about
// @Tags feeds
// @Accept json
// @Produce json
// @Param id path string true "Feed id"
// @Param X-Write-Key header string true "Write key"
// @Param body body updateProfileRequest true "Profile fields"
// @Success 200 {object} okResponse
// @Failure 401 {object} errorResponse
// @Router /feed/{id} [patch]
func (h *FeedHandler) UpdateProfile(c echo.Context) error {
	id, err := parseFeedID(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	source := func() (model.ProfileUpdate, error) {
		var req updateProfileRequest
		if err := bindJSON(c, &req); err != nil {
			return model.ProfileUpdate{}, err
		}
		return model.ProfileUpdate{Name: req.Name, About: req.About}, nil
	}
	if err := h.service.UpdateProfile(c.Request().Context(), id, writeKey(c), source); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// CreatePost godoc
// @Summary Publish a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Feed id"
// @Param X-Write-Key header string true "Write key"
// @Param body body createPostRequest true "Post"
// @Success 200 {object} render.ExportPost
// @Failure 400 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Router /feed/{id}/post [post]
func (h *FeedHandler) CreatePost(c echo.Context) error {
	id, err := parseFeedID(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	source := func() (model.PostInput, error) {
		var req createPostRequest
		if err := bindJSON(c, &req); err != nil {
			return model.PostInput{}, err
		}
		return model.PostInput{Content: req.Content, URL: req.URL}, nil
	}
	post, err := h.service.CreatePost(c.Request().Context(), id, writeKey(c), source)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, render.NewExportPosts([]model.Post{post})[0])
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path string true "Feed id"
// @Param postId path string true "Post id"
// @Param X-Write-Key header string true "Write key"
// @Success 200 {object} okResponse
// @Failure 404 {object} errorResponse
// @Router /feed/{id}/post/{postId} [delete]
func (h *FeedHandler) DeletePost(c echo.Context) error {
	id, err := parseFeedID(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	postID, err := parsePostID(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	if err := h.service.DeletePost(c.Request().Context(), id, writeKey(c), postID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Export godoc
// @Summary Download a backup
// @Tags feeds
// @Produce json
// @Produce text/markdown
// @Param id path string true "Feed id"
// @Param format query string false "json or md"
// @Param X-Write-Key header string true "Write key"
// @Success 200 {file} file
// @Failure 401 {object} errorResponse
// @Router /feed/{id}/export [get]
func (h *FeedHandler) Export(c echo.Context) error {
	id, err := parseFeedID(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	doc, err := h.service.Export(c.Request().Context(), id, writeKey(c), c.QueryParam("format"))
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
	return c.Blob(http.StatusOK, doc.ContentType, doc.Body)
}

// bindJSON decodes the request body. The store invokes it through a source
// after authorization, so a refused caller's body is never read.
func bindJSON(c echo.Context, target any) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBodyBytes)
	if err := (&echo.DefaultBinder{}).BindBody(c, target); err != nil {
		return service.ErrInvalid
	}
	return nil
}

func toFeedResponse(feed model.PublicFeed) feedResponse {
	return feedResponse{
		ID:        feed.ID,
		Name:      feed.Name,
		About:     feed.About,
		CreatedAt: feed.CreatedAt.UnixMilli(),
		Posts:     render.NewExportPosts(feed.Posts),
	}
}

package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/moldandyeast/tinyfeed/internal/service"
)

// HeaderWriteKey carries the feed credential on mutating requests.
const HeaderWriteKey = "X-Write-Key"

var validate = validator.New(validator.WithRequiredStructEnabled())

type feedIDParam struct {
	ID string `validate:"required,alphanum,max=64"`
}

type postIDParam struct {
	ID string `validate:"required,alphanum,max=32"`
}

// normalizeFeedID lowercases and validates a feed id taken from the path.
func normalizeFeedID(raw string) (string, error) {
	p := feedIDParam{ID: strings.ToLower(raw)}
	if err := validate.Struct(p); err != nil {
		return "", service.ErrInvalid
	}
	return p.ID, nil
}

func parseFeedID(c echo.Context) (string, error) {
	return normalizeFeedID(c.Param("id"))
}

func parsePostID(c echo.Context) (string, error) {
	p := postIDParam{ID: strings.ToLower(c.Param("postId"))}
	if err := validate.Struct(p); err != nil {
		return "", service.ErrInvalid
	}
	return p.ID, nil
}

func writeKey(c echo.Context) string {
	return c.Request().Header.Get(HeaderWriteKey)
}

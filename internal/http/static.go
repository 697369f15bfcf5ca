package http

import (
	"io/fs"
	nethttp "net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/moldandyeast/tinyfeed/internal/pages"
	"github.com/moldandyeast/tinyfeed/pkg/logger"
)

const staticPrefix = "/static/"

// registerStatic serves /static/* from dir when it holds a style.css, and from
// the embedded assets otherwise.
func registerStatic(e *echo.Echo, dir string) {
	assets := pages.Static()
	if dir != "" {
		info, err := os.Stat(filepath.Join(dir, "style.css"))
		if err == nil && !info.IsDir() {
			assets = os.DirFS(dir)
		} else {
			logger.Warn("static dir unusable, using embedded assets", "module", "http", "action", "static", "resource", "assets", "result", "failed", "dir", dir)
		}
	}

	fileServer := nethttp.StripPrefix(staticPrefix, nethttp.FileServer(nethttp.FS(assets)))
	e.GET(staticPrefix+"*", func(c echo.Context) error {
		name := c.Param("*")
		if name == "" {
			return echo.ErrNotFound
		}
		info, err := fs.Stat(assets, name)
		if err != nil || info.IsDir() {
			return echo.ErrNotFound
		}
		c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})
	e.GET("/favicon.ico", func(c echo.Context) error {
		return c.Redirect(nethttp.StatusMovedPermanently, staticPrefix+"favicon.svg")
	})
}

// Package web serves the browser client. The files are embedded into the binary
// and talk to the REST API with the session cookie.
package web

import (
	"embed"

	"github.com/labstack/echo/v4"
)

//go:embed static
var static embed.FS

// Register mounts the client at the root path. API routes registered on the
// same Echo instance take precedence over the catch-all static route.
func Register(e *echo.Echo) {
	g := e.Group("", revalidate)
	g.StaticFS("/", echo.MustSubFS(static, "static"))
}

// revalidate makes browsers check for a new client after each deploy
func revalidate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-cache")
		return next(c)
	}
}

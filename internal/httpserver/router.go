package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/medhabt/technotes/internal/middleware"
)

type Deps struct {
	Auth           *AuthHTTP
	Users          *UserHTTP
	Notes          *NoteHTTP
	AccessSecret   []byte
	AllowedOrigins []string
	Logger         *slog.Logger
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = JSONErrorHandler(d.Logger)

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.AllowedOrigins,
		AllowCredentials: true,
	}))

	e.Static("/", "public")

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/login", d.Auth.Login, loginLimiter())
	auth.GET("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	requireAuth := middleware.RequireAuth(d.AccessSecret)

	users := e.Group("/users", requireAuth)
	users.GET("", d.Users.List)
	users.POST("", d.Users.Create)
	users.PATCH("", d.Users.Update)
	users.DELETE("", d.Users.Delete)

	notes := e.Group("/notes", requireAuth)
	notes.GET("", d.Notes.List)
	notes.POST("", d.Notes.Create)
	notes.PATCH("", d.Notes.Update)
	notes.DELETE("", d.Notes.Delete)
	notes.GET("/search", d.Notes.Search)
}

// loginLimiter caps login attempts at 5 per minute per client IP.
func loginLimiter() echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(time.Minute / 5),
		Burst:     5,
		ExpiresIn: time.Minute,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests,
				"too many login attempts, please retry in 1 minute")
		},
	})
}

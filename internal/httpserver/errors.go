package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medhabt/technotes/internal/service"
)

// JSONErrorHandler is the final stop for every failed request: it logs the
// error with its request line and origin, then emits the JSON envelope the
// clients expect.
func JSONErrorHandler(base *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprint(he.Message)
		}

		base.Error("request error",
			"method", c.Request().Method,
			"url", c.Request().URL.Path,
			"origin", c.Request().Header.Get("Origin"),
			"status", code,
			"error", err,
		)

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, echo.Map{"Message": msg, "isError": true})
	}
}

// toHTTPError translates service sentinel errors into HTTP errors, keeping
// the service's human-readable message.
func toHTTPError(err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		code = http.StatusConflict
	default:
		return echo.NewHTTPError(code, "internal server error").SetInternal(err)
	}
	return echo.NewHTTPError(code, trimSentinel(err.Error()))
}

// trimSentinel drops the ": <sentinel>" suffix the services append for
// errors.Is matching, leaving only the user-facing message.
func trimSentinel(msg string) string {
	for i := len(msg) - 1; i >= 0; i-- {
		if msg[i] == ':' {
			return msg[:i]
		}
	}
	return msg
}

package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medhabt/technotes/internal/logging"
	"github.com/medhabt/technotes/internal/service"
)

const refreshCookieName = "refreshToken"

type AuthHTTP struct {
	Svc *service.AuthService
}

// The refresh token travels only in this cookie, never in a JSON body.
func refreshCookie(value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(time.Until(exp).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func expiredRefreshCookie() *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login rejected", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	c.SetCookie(refreshCookie(res.RefreshToken, res.RefreshExp))

	return c.JSON(http.StatusCreated, res.AccessToken)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		l.Warn("refresh rejected", "status", 401, "reason", "no cookie")
		return echo.NewHTTPError(http.StatusUnauthorized, "no refresh token cookie found")
	}

	accessToken, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, accessToken)
}

// Logout clears the refresh cookie. Tokens already issued stay valid until
// they expire; there is no server-side revocation list.
func (h *AuthHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_logout")

	if _, err := c.Cookie(refreshCookieName); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"message": "no content"})
	}

	c.SetCookie(expiredRefreshCookie())

	l.Info("logout successful")
	return c.JSON(http.StatusOK, echo.Map{"message": "refresh cookie cleared"})
}

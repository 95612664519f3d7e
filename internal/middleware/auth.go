package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medhabt/technotes/internal/tokens"
)

const (
	CtxUsername = "username"
	CtxRoles    = "roles"
)

// RequireAuth gates resource routes behind a bearer access token and
// stores the resolved identity in the request context.
func RequireAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed bearer token")
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			claims, err := tokens.AccessClaimsFromToken(raw, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "invalid or expired access token")
			}

			c.Set(CtxUsername, claims.Username)
			c.Set(CtxRoles, claims.Roles)

			return next(c)
		}
	}
}

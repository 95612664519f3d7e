package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medhabt/technotes/internal/logging"
	"github.com/medhabt/technotes/internal/service"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) List(c echo.Context) error {
	users, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_create")

	var req struct {
		Username string   `json:"username"`
		Password string   `json:"password"`
		Roles    []string `json:"roles"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create rejected", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Create(ctx, req.Username, req.Password, req.Roles)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_update")

	// Active is a pointer so a missing flag is distinguishable from false;
	// a non-boolean value fails the bind outright.
	var req struct {
		ID       uint     `json:"id"`
		Username string   `json:"username"`
		Password string   `json:"password"`
		Roles    []string `json:"roles"`
		Active   *bool    `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update rejected", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Active == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required")
	}

	user, err := h.Svc.Update(ctx, service.UpdateUserParams{
		ID:       req.ID,
		Username: req.Username,
		Password: req.Password,
		Roles:    req.Roles,
		Active:   *req.Active,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_delete")

	var req struct {
		ID uint `json:"id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("delete rejected", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Delete(ctx, req.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "user " + user.Username + " deleted",
	})
}

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medhabt/technotes/internal/logging"
	"github.com/medhabt/technotes/internal/service"
	"github.com/medhabt/technotes/internal/util"
)

type NoteHTTP struct {
	Svc *service.NoteService
}

func (h *NoteHTTP) List(c echo.Context) error {
	notes, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *NoteHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note_create")

	var req struct {
		User  uint   `json:"user"`
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create rejected", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	note, err := h.Svc.Create(ctx, req.User, req.Title, req.Body)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, note)
}

func (h *NoteHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note_update")

	// Completed is a pointer for the same reason as the user Active flag:
	// "completed": "yes" must be a 400, not a silent false.
	var req struct {
		ID        uint   `json:"id"`
		User      uint   `json:"user"`
		Title     string `json:"title"`
		Body      string `json:"body"`
		Completed *bool  `json:"completed"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update rejected", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Completed == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required")
	}

	note, err := h.Svc.Update(ctx, service.UpdateNoteParams{
		ID:        req.ID,
		UserID:    req.User,
		Title:     req.Title,
		Body:      req.Body,
		Completed: *req.Completed,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, note)
}

func (h *NoteHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note_delete")

	var req struct {
		ID uint `json:"id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("delete rejected", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	note, err := h.Svc.Delete(ctx, req.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "note " + strconv.FormatUint(uint64(note.ID), 10) + " deleted",
		"ticket":  note.Ticket,
	})
}

func (h *NoteHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()

	q := c.QueryParam("q")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, notes, err := h.Svc.Search(ctx, q, from, size)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "notes": notes})
}

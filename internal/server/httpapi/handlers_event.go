package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/tickethub/internal/server/models"
)

func (s *HTTPServer) handleCreateEvent(c echo.Context) error {
	var input models.EventInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if input.Title == "" || input.CategoryID == 0 || input.StartsAt.IsZero() {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "title, category_id and starts_at are required"})
	}

	event, err := s.events.CreateEvent(c.Request().Context(), callerID(c), &input)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, event)
}

func (s *HTTPServer) handleReadAgenda(c echo.Context) error {
	agenda, err := s.events.ReadAgenda(c.Request().Context(), callerID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, agenda)
}

func (s *HTTPServer) handleReadEvent(c echo.Context) error {
	event, err := s.events.ReadSingleEvent(c.Request().Context(), c.Param("id"), callerID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

func (s *HTTPServer) handleUpdateEvent(c echo.Context) error {
	var input models.EventInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if input.Title == "" || input.CategoryID == 0 || input.StartsAt.IsZero() {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "title, category_id and starts_at are required"})
	}

	event, err := s.events.UpdateEvent(c.Request().Context(), c.Param("id"), callerID(c), &input)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

func (s *HTTPServer) handleDeleteEvent(c echo.Context) error {
	deleted, err := s.events.DeleteEvent(c.Request().Context(), c.Param("id"), callerID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

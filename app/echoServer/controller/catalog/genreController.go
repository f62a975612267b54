package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
	catalogsvc "github.com/RashmiRanjanSahu1997/library-management/service/catalog"
)

// POST /v1/genres  (librarian)
func (h *Controller) CreateGenre(c echo.Context) error {
	if !isLibrarian(c) {
		return forbidden(c)
	}
	var req GenreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "validation error"})
	}
	g, err := h.Svc.CreateGenre(c.Request().Context(), req.Name)
	if err != nil {
		if apperr.CodeOf(err) == catalogsvc.ErrNameTaken {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "genre name already exists"})
		}
		h.Log.Error("genre create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusCreated, g)
}

// GET /v1/genres
func (h *Controller) ListGenres(c echo.Context) error {
	rows, err := h.Svc.ListGenres(c.Request().Context())
	if err != nil {
		h.Log.Error("genre list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/genres/:id
func (h *Controller) GetGenre(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	g, err := h.Svc.GetGenre(c.Request().Context(), id)
	if err != nil {
		if apperr.CodeOf(err) == catalogsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "genre not found"})
		}
		h.Log.Error("genre get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, g)
}

// PUT /v1/genres/:id  (librarian)
func (h *Controller) UpdateGenre(c echo.Context) error {
	if !isLibrarian(c) {
		return forbidden(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	var req GenreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "validation error"})
	}
	g, err := h.Svc.UpdateGenre(c.Request().Context(), id, req.Name)
	if err != nil {
		switch apperr.CodeOf(err) {
		case catalogsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "genre not found"})
		case catalogsvc.ErrNameTaken:
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "genre name already exists"})
		default:
			h.Log.Error("genre update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, g)
}

// DELETE /v1/genres/:id  (librarian)
func (h *Controller) DeleteGenre(c echo.Context) error {
	if !isLibrarian(c) {
		return forbidden(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	if err := h.Svc.DeleteGenre(c.Request().Context(), id); err != nil {
		if apperr.CodeOf(err) == catalogsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "genre not found"})
		}
		h.Log.Error("genre delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

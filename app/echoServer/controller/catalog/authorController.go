package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
	catalogsvc "github.com/RashmiRanjanSahu1997/library-management/service/catalog"
)

// POST /v1/authors  (librarian)
func (h *Controller) CreateAuthor(c echo.Context) error {
	if !isLibrarian(c) {
		return forbidden(c)
	}
	var req AuthorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "validation error"})
	}
	a, err := h.Svc.CreateAuthor(c.Request().Context(), req.Name, req.Bio)
	if err != nil {
		h.Log.Error("author create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusCreated, a)
}

// GET /v1/authors?search=
func (h *Controller) ListAuthors(c echo.Context) error {
	rows, err := h.Svc.ListAuthors(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		h.Log.Error("author list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/authors/:id
func (h *Controller) GetAuthor(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	a, err := h.Svc.GetAuthor(c.Request().Context(), id)
	if err != nil {
		if apperr.CodeOf(err) == catalogsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "author not found"})
		}
		h.Log.Error("author get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, a)
}

// PUT /v1/authors/:id  (librarian)
func (h *Controller) UpdateAuthor(c echo.Context) error {
	if !isLibrarian(c) {
		return forbidden(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	var req AuthorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "validation error"})
	}
	a, err := h.Svc.UpdateAuthor(c.Request().Context(), id, req.Name, req.Bio)
	if err != nil {
		if apperr.CodeOf(err) == catalogsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "author not found"})
		}
		h.Log.Error("author update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, a)
}

// DELETE /v1/authors/:id  (librarian)
func (h *Controller) DeleteAuthor(c echo.Context) error {
	if !isLibrarian(c) {
		return forbidden(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	if err := h.Svc.DeleteAuthor(c.Request().Context(), id); err != nil {
		if apperr.CodeOf(err) == catalogsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "author not found"})
		}
		h.Log.Error("author delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

package catalog

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/RashmiRanjanSahu1997/library-management/model"
	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
	catalogsvc "github.com/RashmiRanjanSahu1997/library-management/service/catalog"
)

func (req *BookReq) toModel(id int64) *model.Book {
	b := &model.Book{
		ID:              id,
		Title:           req.Title,
		Author:          model.Author{ID: req.AuthorID},
		ISBN:            req.ISBN,
		AvailableCopies: 1,
		TotalCopies:     1,
	}
	if req.AvailableCopies != nil {
		b.AvailableCopies = *req.AvailableCopies
	}
	if req.TotalCopies != nil {
		b.TotalCopies = *req.TotalCopies
	}
	return b
}

func (h *Controller) bookError(c echo.Context, op string, err error) error {
	switch apperr.CodeOf(err) {
	case catalogsvc.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "book not found"})
	case catalogsvc.ErrBadCopies:
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "available_copies must be between 0 and total_copies"})
	case catalogsvc.ErrBadRef:
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "unknown author or genre"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
}

// POST /v1/books  (librarian)
func (h *Controller) CreateBook(c echo.Context) error {
	if !isLibrarian(c) {
		return forbidden(c)
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "validation error"})
	}
	b := req.toModel(0)
	if err := h.Svc.CreateBook(c.Request().Context(), b, req.GenreIDs); err != nil {
		return h.bookError(c, "book create", err)
	}
	out, err := h.Svc.GetBook(c.Request().Context(), b.ID)
	if err != nil {
		return h.bookError(c, "book create reload", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /v1/books
// Supports ?author_id= &genre_id= &title= &search= &ordering=
func (h *Controller) ListBooks(c echo.Context) error {
	var f model.BookFilter
	if v := c.QueryParam("author_id"); v != "" {
		f.AuthorID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := c.QueryParam("genre_id"); v != "" {
		f.GenreID, _ = strconv.ParseInt(v, 10, 64)
	}
	f.Title = c.QueryParam("title")
	f.Search = c.QueryParam("search")
	f.OrderBy = c.QueryParam("ordering")

	rows, err := h.Svc.ListBooks(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/:id
func (h *Controller) GetBook(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	b, err := h.Svc.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.bookError(c, "book get", err)
	}
	return c.JSON(http.StatusOK, b)
}

// PUT /v1/books/:id  (librarian)
func (h *Controller) UpdateBook(c echo.Context) error {
	if !isLibrarian(c) {
		return forbidden(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "validation error"})
	}
	b := req.toModel(id)
	if err := h.Svc.UpdateBook(c.Request().Context(), b, req.GenreIDs); err != nil {
		return h.bookError(c, "book update", err)
	}
	out, err := h.Svc.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.bookError(c, "book update reload", err)
	}
	return c.JSON(http.StatusOK, out)
}

// DELETE /v1/books/:id  (librarian)
func (h *Controller) DeleteBook(c echo.Context) error {
	if !isLibrarian(c) {
		return forbidden(c)
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	if err := h.Svc.DeleteBook(c.Request().Context(), id); err != nil {
		return h.bookError(c, "book delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

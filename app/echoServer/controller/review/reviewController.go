package review

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
	reviewsvc "github.com/RashmiRanjanSahu1997/library-management/service/review"
)

type Controller struct {
	Svc reviewsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func bookID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// POST /v1/books/:id/add_review
func (h *Controller) Add(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	var req AddReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "validation error"})
	}

	rv, err := h.Svc.Add(c.Request().Context(), uid, id, req.Rating, req.Comment)
	if err != nil {
		switch apperr.CodeOf(err) {
		case reviewsvc.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "book not found"})
		case reviewsvc.ErrDuplicate:
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "you have already reviewed this book"})
		case reviewsvc.ErrBadRating:
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "rating must be a positive integer"})
		default:
			h.Log.Error("review add", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, rv)
}

// GET /v1/books/:id/reviews
func (h *Controller) ListByBook(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}
	rows, err := h.Svc.ListByBook(c.Request().Context(), id)
	if err != nil {
		if apperr.CodeOf(err) == reviewsvc.ErrBookNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "book not found"})
		}
		h.Log.Error("review list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

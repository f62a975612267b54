package borrow

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/RashmiRanjanSahu1997/library-management/model"
	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
	borrowsvc "github.com/RashmiRanjanSahu1997/library-management/service/borrow"
)

type Controller struct {
	Svc borrowsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func caller(c echo.Context) (int64, model.Role) {
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)
	return uid, model.Role(role)
}

// GET /v1/borrow
// Librarians see every request, students only their own.
func (h *Controller) List(c echo.Context) error {
	uid, role := caller(c)
	rows, err := h.Svc.List(c.Request().Context(), uid, role)
	if err != nil {
		h.Log.Error("borrow list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/borrow  (student, throttled)
func (h *Controller) Create(c echo.Context) error {
	uid, role := caller(c)
	if role != model.RoleStudent {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "only students can create borrow requests"})
	}

	var req CreateBorrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "validation error"})
	}

	br, err := h.Svc.Create(c.Request().Context(), uid, req.BookID)
	if err != nil {
		switch apperr.CodeOf(err) {
		case borrowsvc.ErrThrottled:
			return c.JSON(http.StatusTooManyRequests, echo.Map{"detail": "borrow request limit reached, try again later"})
		case borrowsvc.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "book not found"})
		default:
			h.Log.Error("borrow create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, br)
}

// PATCH /v1/borrow/:id/approve  (librarian)
func (h *Controller) Approve(c echo.Context) error {
	if _, role := caller(c); role != model.RoleLibrarian {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "librarian role required"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}

	br, err := h.Svc.Approve(c.Request().Context(), id)
	if err != nil {
		switch apperr.CodeOf(err) {
		case borrowsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "borrow request not found"})
		case borrowsvc.ErrNotPending:
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "only pending requests can be approved"})
		case borrowsvc.ErrNoCopies:
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "no copies available to approve this request"})
		default:
			h.Log.Error("borrow approve", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, br)
}

// PATCH /v1/borrow/:id/reject  (librarian)
func (h *Controller) Reject(c echo.Context) error {
	if _, role := caller(c); role != model.RoleLibrarian {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "librarian role required"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}

	br, err := h.Svc.Reject(c.Request().Context(), id)
	if err != nil {
		switch apperr.CodeOf(err) {
		case borrowsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "borrow request not found"})
		case borrowsvc.ErrNotPending:
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "only pending requests can be rejected"})
		default:
			h.Log.Error("borrow reject", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, br)
}

// PATCH /v1/borrow/:id/return_book  (owner or librarian)
func (h *Controller) Return(c echo.Context) error {
	uid, role := caller(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid id"})
	}

	br, err := h.Svc.Return(c.Request().Context(), uid, role, id)
	if err != nil {
		switch apperr.CodeOf(err) {
		case borrowsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "borrow request not found"})
		case borrowsvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"detail": "not allowed"})
		case borrowsvc.ErrNotApproved:
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "only approved requests can be returned"})
		default:
			h.Log.Error("borrow return", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, br)
}

package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/RashmiRanjanSahu1997/library-management/model"
	catalogsvc "github.com/RashmiRanjanSahu1997/library-management/service/catalog"
)

type Controller struct {
	Svc catalogsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isLibrarian(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == string(model.RoleLibrarian)
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{"detail": "librarian role required"})
}

package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tiprecycle/shopd/internal/shop"
	"github.com/tiprecycle/shopd/internal/shop/catalog"
	"github.com/tiprecycle/shopd/internal/shop/customers"
	"github.com/tiprecycle/shopd/internal/shop/repairs"
)

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{
		"code": "OK",
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, echo.Map{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"code":    "OK",
		"data":    rows,
		"total":   total,
		"page":    page,
		"perPage": pageSize,
	})
}

func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	perPage := c.QueryParam("perPage")
	if perPage == "" {
		// legacy param
		perPage = c.QueryParam("pageSize")
	}
	if ps, err := strconv.Atoi(perPage); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// failFor maps service errors onto the response envelope. Validation
// rejections become 400s, known sentinels keep their own codes and
// anything else is a storage failure surfaced verbatim.
func failFor(c echo.Context, err error, subject string) error {
	switch {
	case shop.IsValidation(err):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, catalog.ErrNotFound) || errors.Is(err, repairs.ErrNotFound) || errors.Is(err, customers.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", subject+" not found", nil)
	case errors.Is(err, catalog.ErrOutOfStock):
		return fail(c, http.StatusConflict, "OUT_OF_STOCK", "Item out of stock", nil)
	default:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to process "+subject, err.Error())
	}
}

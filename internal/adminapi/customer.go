package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tiprecycle/shopd/internal/webserver"
)

type customerPayload struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

type pointsPayload struct {
	Delta int `json:"delta" form:"delta"`
}

func registerCustomerRoutes() {
	webserver.ApiGET("/customers", listCustomers)
	webserver.ApiGET("/customers/search", searchCustomers)
	webserver.ApiGET("/customers/:id", getCustomer)
	webserver.ApiPOST("/customers", registerCustomer)
	webserver.ApiPOST("/customers/:id/points", adjustCustomerPoints)
}

func listCustomers(c echo.Context) error {
	rows, err := webserver.GetApp(c).Customers().List(c.Request().Context())
	if err != nil {
		return failFor(c, err, "customers")
	}

	page, pageSize := parsePagination(c)
	total := int64(len(rows))
	start := (page - 1) * pageSize
	if start > len(rows) {
		start = len(rows)
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return paged(c, rows[start:end], total, page, pageSize)
}

func searchCustomers(c echo.Context) error {
	rows, err := webserver.GetApp(c).Customers().Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return failFor(c, err, "customers")
	}
	return ok(c, rows)
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}

	customer, err := webserver.GetApp(c).Customers().Get(c.Request().Context(), id)
	if err != nil {
		return failFor(c, err, "customer")
	}
	return ok(c, customer)
}

func registerCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer", nil)
	}

	customer, err := webserver.GetApp(c).Customers().Register(c.Request().Context(), payload.Name, payload.Email)
	if err != nil {
		return failFor(c, err, "customer")
	}
	return ok(c, customer)
}

// adjustCustomerPoints applies a signed delta to the loyalty balance.
// Negative results are allowed unless the clamp setting says otherwise.
func adjustCustomerPoints(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}

	var payload pointsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse points delta", nil)
	}

	customer, err := webserver.GetApp(c).Customers().AdjustPoints(c.Request().Context(), id, payload.Delta)
	if err != nil {
		return failFor(c, err, "customer")
	}
	return ok(c, customer)
}

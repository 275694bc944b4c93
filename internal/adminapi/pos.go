package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tiprecycle/shopd/internal/webserver"
)

type barcodePayload struct {
	Barcode string `json:"barcode" form:"barcode"`
}

func registerPosRoutes() {
	webserver.ApiPOST("/pos/sell", sellItem)
	webserver.ApiPOST("/pos/scan", scanBarcode)
	webserver.ApiGET("/sales", listSales)
}

// sellItem completes a barcode sale: one unit off the shelf, one
// receipt back with a fresh sale barcode.
func sellItem(c echo.Context) error {
	var payload barcodePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse barcode", nil)
	}

	receipt, err := webserver.GetApp(c).Catalog().SellByBarcode(c.Request().Context(), payload.Barcode)
	if err != nil {
		return failFor(c, err, "item")
	}
	return ok(c, receipt)
}

// scanBarcode resolves a code without selling anything. NotFound is a
// normal answer here, not an error response.
func scanBarcode(c echo.Context) error {
	var payload barcodePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse barcode", nil)
	}

	result, err := webserver.GetApp(c).Lookup().Resolve(c.Request().Context(), payload.Barcode)
	if err != nil {
		return failFor(c, err, "barcode")
	}
	return ok(c, result)
}

func listSales(c echo.Context) error {
	limit := 0
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}

	sales, err := webserver.GetApp(c).Catalog().SaleHistory(c.Request().Context(), limit)
	if err != nil {
		return failFor(c, err, "sales")
	}
	return ok(c, sales)
}

package adminapi

import (
	"net/http"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/tiprecycle/shopd/internal/domain"
	"github.com/tiprecycle/shopd/internal/webserver"
)

type itemPayload struct {
	Name  string  `json:"name" form:"name"`
	Price float64 `json:"price" form:"price"`
	Stock int     `json:"stock" form:"stock"`
}

// itemExportRow is the CSV projection of an inventory row.
type itemExportRow struct {
	ID      int64   `csv:"id"`
	Name    string  `csv:"name"`
	Price   float64 `csv:"price"`
	Stock   int     `csv:"stock"`
	Barcode string  `csv:"barcode"`
}

func registerInventoryRoutes() {
	webserver.ApiGET("/inventory", listInventory)
	webserver.ApiGET("/inventory/export", exportInventory)
	webserver.ApiPOST("/inventory", addInventoryItem)
	webserver.ApiPUT("/inventory/:id", editInventoryItem)
	webserver.ApiDELETE("/inventory/:id", deleteInventoryItem)
}

// listInventory returns the inventory snapshot with optional name
// filtering and in-memory pagination. The snapshot is small by nature:
// this is a single shop's shelf, not a warehouse.
func listInventory(c echo.Context) error {
	items, err := webserver.GetApp(c).Catalog().List(c.Request().Context())
	if err != nil {
		return failFor(c, err, "inventory")
	}

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		low := strings.ToLower(q)
		filtered := items[:0]
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Name), low) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	page, pageSize := parsePagination(c)
	total := int64(len(items))
	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	return paged(c, items[start:end], total, page, pageSize)
}

func exportInventory(c echo.Context) error {
	items, err := webserver.GetApp(c).Catalog().List(c.Request().Context())
	if err != nil {
		return failFor(c, err, "inventory")
	}

	rows := make([]itemExportRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, itemExportRow{
			ID:      item.ID,
			Name:    item.Name,
			Price:   item.Price,
			Stock:   item.Stock,
			Barcode: item.Barcode,
		})
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export inventory", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="inventory.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(out))
}

func addInventoryItem(c echo.Context) error {
	var payload itemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item", err.Error())
	}

	item, err := webserver.GetApp(c).Catalog().Add(c.Request().Context(), payload.Name, payload.Price, payload.Stock)
	if err != nil {
		return failFor(c, err, "item")
	}
	return ok(c, item)
}

func editInventoryItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}

	var payload itemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item", err.Error())
	}

	item, err := webserver.GetApp(c).Catalog().Edit(c.Request().Context(), id, payload.Name, payload.Price, payload.Stock)
	if err != nil {
		return failFor(c, err, "item")
	}
	return ok(c, item)
}

// deleteInventoryItem is irreversible and therefore admin-only; the
// dashboard asks the operator to confirm before calling it.
func deleteInventoryItem(c echo.Context) error {
	if webserver.OperatorRole(c) != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only admins may delete inventory", nil)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}

	if err := webserver.GetApp(c).Catalog().Delete(c.Request().Context(), id); err != nil {
		return failFor(c, err, "item")
	}
	return ok(c, echo.Map{"id": id})
}

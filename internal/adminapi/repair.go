package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tiprecycle/shopd/internal/webserver"
)

type repairPayload struct {
	Item         string `json:"item" form:"item"`
	Issue        string `json:"issue" form:"issue"`
	CustomerName string `json:"customer_name" form:"customer_name"`
}

type repairStatusPayload struct {
	Status string `json:"status" form:"status"`
}

func registerRepairRoutes() {
	webserver.ApiGET("/repairs", listRepairs)
	webserver.ApiGET("/repairs/:id", getRepair)
	webserver.ApiPOST("/repairs", createRepair)
	webserver.ApiPUT("/repairs/:id/status", updateRepairStatus)
}

func listRepairs(c echo.Context) error {
	tickets, err := webserver.GetApp(c).Repairs().List(c.Request().Context())
	if err != nil {
		return failFor(c, err, "repairs")
	}

	page, pageSize := parsePagination(c)
	total := int64(len(tickets))
	start := (page - 1) * pageSize
	if start > len(tickets) {
		start = len(tickets)
	}
	end := start + pageSize
	if end > len(tickets) {
		end = len(tickets)
	}
	return paged(c, tickets[start:end], total, page, pageSize)
}

func getRepair(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid ticket ID", nil)
	}

	ticket, err := webserver.GetApp(c).Repairs().Get(c.Request().Context(), id)
	if err != nil {
		return failFor(c, err, "ticket")
	}
	return ok(c, ticket)
}

func createRepair(c echo.Context) error {
	var payload repairPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse repair request", nil)
	}

	ticket, err := webserver.GetApp(c).Repairs().CreateRequest(c.Request().Context(),
		payload.Item, payload.Issue, payload.CustomerName)
	if err != nil {
		return failFor(c, err, "ticket")
	}
	return ok(c, ticket)
}

func updateRepairStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid ticket ID", nil)
	}

	var payload repairStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", nil)
	}

	if err := webserver.GetApp(c).Repairs().UpdateStatus(c.Request().Context(), id, payload.Status); err != nil {
		return failFor(c, err, "ticket")
	}
	return ok(c, echo.Map{"id": id, "status": payload.Status})
}

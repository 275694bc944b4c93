package adminapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiprecycle/shopd/config"
	"github.com/tiprecycle/shopd/internal/app"
	"github.com/tiprecycle/shopd/internal/webserver"
)

type apiEnv struct {
	app *app.Application
	ws  *webserver.WebServer
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = "shop_test"
	cfg.Logger.Mode = "development"
	cfg.Logger.FileEnable = false

	application := app.NewApplication(&cfg)
	require.NoError(t, application.Init(&cfg))
	t.Cleanup(application.Release)

	ws := webserver.Init(application)
	InitRouter()
	return &apiEnv{app: application, ws: ws}
}

func (e *apiEnv) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echoHeaderContentType, "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ws.Echo().ServeHTTP(rec, req)

	var parsed map[string]interface{}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echoHeaderContentType), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	}
	return rec, parsed
}

const echoHeaderContentType = "Content-Type"

func (e *apiEnv) login(t *testing.T) string {
	t.Helper()
	rec, body := e.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLogin(t *testing.T) {
	env := newAPIEnv(t)

	token := env.login(t)
	assert.NotEmpty(t, token)

	rec, body := env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
}

func TestAPIRequiresToken(t *testing.T) {
	env := newAPIEnv(t)

	// echo-jwt answers 400 for a missing token and 401 for a bad one.
	rec, _ := env.request(t, http.MethodGet, "/api/inventory", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.request(t, http.MethodGet, "/api/inventory", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInventoryLifecycle(t *testing.T) {
	env := newAPIEnv(t)
	token := env.login(t)

	rec, body := env.request(t, http.MethodPost, "/api/inventory", token, map[string]interface{}{
		"name": "Toaster", "price": 300, "stock": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	item := body["data"].(map[string]interface{})
	barcode := item["barcode"].(string)
	assert.Len(t, barcode, 9)

	rec, body = env.request(t, http.MethodGet, "/api/inventory", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)

	id := int64(item["id"].(float64))
	rec, _ = env.request(t, http.MethodPut, fmt.Sprintf("/api/inventory/%d", id), token, map[string]interface{}{
		"name": "Chrome Toaster", "price": 350, "stock": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.request(t, http.MethodDelete, fmt.Sprintf("/api/inventory/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.request(t, http.MethodDelete, fmt.Sprintf("/api/inventory/%d", id), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSellAndScan(t *testing.T) {
	env := newAPIEnv(t)
	token := env.login(t)

	_, body := env.request(t, http.MethodPost, "/api/inventory", token, map[string]interface{}{
		"name": "Lamp", "price": 120, "stock": 1,
	})
	item := body["data"].(map[string]interface{})
	barcode := item["barcode"].(string)

	rec, body := env.request(t, http.MethodPost, "/api/pos/sell", token, map[string]string{"barcode": barcode})
	require.Equal(t, http.StatusOK, rec.Code)
	receipt := body["data"].(map[string]interface{})
	assert.Equal(t, "Lamp", receipt["item_name"])
	assert.EqualValues(t, 0, receipt["remaining"])

	rec, body = env.request(t, http.MethodPost, "/api/pos/sell", token, map[string]string{"barcode": barcode})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "OUT_OF_STOCK", body["code"])

	rec, body = env.request(t, http.MethodPost, "/api/pos/scan", token, map[string]string{"barcode": barcode})
	require.Equal(t, http.StatusOK, rec.Code)
	result := body["data"].(map[string]interface{})
	assert.Equal(t, "inventory", result["kind"])

	rec, body = env.request(t, http.MethodPost, "/api/pos/scan", token, map[string]string{"barcode": "000000001"})
	require.Equal(t, http.StatusOK, rec.Code)
	result = body["data"].(map[string]interface{})
	assert.Equal(t, "not_found", result["kind"])

	rec, body = env.request(t, http.MethodGet, "/api/sales", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sales := body["data"].([]interface{})
	assert.Len(t, sales, 1)
}

func TestRepairAndCustomerFlow(t *testing.T) {
	env := newAPIEnv(t)
	token := env.login(t)

	rec, body := env.request(t, http.MethodPost, "/api/repairs", token, map[string]string{
		"item": "Blender", "issue": "does not spin", "customer_name": "Maria Cruz",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	ticket := body["data"].(map[string]interface{})
	ticketID := int64(ticket["id"].(float64))
	assert.Equal(t, "Pending", ticket["status"])

	rec, _ = env.request(t, http.MethodPut, fmt.Sprintf("/api/repairs/%d/status", ticketID), token,
		map[string]string{"status": "Done"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.request(t, http.MethodPost, "/api/customers", token, map[string]string{
		"name": "Ana Santos", "email": "ana@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	customer := body["data"].(map[string]interface{})
	assert.EqualValues(t, 100, customer["points"])
	customerID := int64(customer["id"].(float64))

	rec, body = env.request(t, http.MethodPost, fmt.Sprintf("/api/customers/%d/points", customerID), token,
		map[string]int{"delta": -150})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := body["data"].(map[string]interface{})
	assert.EqualValues(t, -50, updated["points"])

	rec, body = env.request(t, http.MethodGet, "/api/customers/search?q=santos", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)
}

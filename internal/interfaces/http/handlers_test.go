package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-optimizer/internal/application/analytics"
	"github.com/jhoicas/inventory-optimizer/internal/application/audit"
	"github.com/jhoicas/inventory-optimizer/internal/application/auth"
	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
	"github.com/jhoicas/inventory-optimizer/internal/application/inventory"
	"github.com/jhoicas/inventory-optimizer/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-optimizer/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-optimizer/internal/infrastructure/xmlexport"
	apphttp "github.com/jhoicas/inventory-optimizer/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventory-optimizer/pkg/jwt"
)

type fakeEnqueuer struct {
	horizon int
}

func (f *fakeEnqueuer) EnqueueWarmup(_ context.Context, horizonDays int) (string, error) {
	f.horizon = horizonDays
	return "task-1", nil
}

type testServer struct {
	app   *fiber.App
	store *memory.Store
}

func newTestServer(t *testing.T, enqueuer apphttp.WarmupEnqueuer) *testServer {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewProductLedger(store.TxRunner(), store.Products(), nil, inventory.NewClock(), "")
	sales := inventory.NewSaleRecorder(store.TxRunner(), ledger, store.Sales())
	deps := apphttp.RouterDeps{
		Ledger:          ledger,
		Sales:           sales,
		Forecasts:       analytics.NewForecastUseCase(store.Products(), store.Sales(), nil),
		Reports:         analytics.NewReportUseCase(store.Products(), store.Sales()),
		Audit:           audit.NewUseCase(store.AuditLogs(), xmlexport.NewAuditExporter()),
		AuthUC:          auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer}),
		SummaryRenderer: pdf.NewSummaryReportGenerator("Inventory Optimizer"),
		ForecastHorizon: 7,
		JWTSecret:       testJWTSecret,
	}
	if enqueuer != nil {
		deps.WarmupEnqueuer = enqueuer
	}
	app := apphttp.NewApp(apphttp.ServerConfig{AppName: "test"}, deps, zerolog.Nop())
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, role string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, role, testIssuer, testExpMin)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (s *testServer) createProduct(t *testing.T, name string, qty int) dto.ProductResponse {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"name": name, "quantity_on_hand": qty, "price": "2.50", "cost_price": "1.00",
	}, "operator")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &p))
	return p
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	resp, body := s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"ok"`)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t, nil)
	resp, _ := s.do(t, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProducts_CreateGetList(t *testing.T) {
	s := newTestServer(t, nil)
	p := s.createProduct(t, "Widget", 100)
	assert.Equal(t, 100, p.QuantityOnHand)

	resp, body := s.do(t, http.MethodGet, "/api/products/"+p.ID, nil, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Widget", got.Name)

	resp, body = s.do(t, http.MethodGet, "/api/products?limit=500", nil, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ProductListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 100, list.Page.Limit)
	assert.Equal(t, 1, list.Page.Total)
}

func TestProducts_Validation(t *testing.T) {
	s := newTestServer(t, nil)
	resp, body := s.do(t, http.MethodPost, "/api/products", map[string]interface{}{"quantity_on_hand": 5}, "operator")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")

	resp, _ = s.do(t, http.MethodPost, "/api/products", map[string]interface{}{"name": "X", "quantity_on_hand": -1}, "operator")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts_NotFound(t *testing.T) {
	s := newTestServer(t, nil)
	resp, body := s.do(t, http.MethodGet, "/api/products/no-existe", nil, "operator")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestProducts_AddStockAndLowStock(t *testing.T) {
	s := newTestServer(t, nil)
	p := s.createProduct(t, "Tornillo", 3)

	resp, body := s.do(t, http.MethodGet, "/api/products/low-stock", nil, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var low []dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &low))
	require.Len(t, low, 1)

	resp, body = s.do(t, http.MethodPost, "/api/products/"+p.ID+"/add-stock", map[string]int{"quantity": 50}, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, 53, updated.QuantityOnHand)

	resp, _ = s.do(t, http.MethodPost, "/api/products/"+p.ID+"/add-stock", map[string]int{"quantity": 0}, "operator")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSales_InsufficientStockBody(t *testing.T) {
	s := newTestServer(t, nil)
	p := s.createProduct(t, "Widget", 5)

	resp, body := s.do(t, http.MethodPost, "/api/sales", map[string]interface{}{"product_id": p.ID, "quantity_sold": 8}, "operator")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out dto.InsufficientStockResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	assert.Equal(t, 5, out.Available)
	assert.Equal(t, 8, out.Requested)
}

func TestSales_RecordAndQuick(t *testing.T) {
	s := newTestServer(t, nil)
	p := s.createProduct(t, "Widget", 100)

	resp, body := s.do(t, http.MethodPost, "/api/sales", map[string]interface{}{
		"product_id": p.ID, "quantity_sold": 15, "unit_price": "2.50", "customer_name": "Ana",
	}, "operator")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sale dto.SaleRecordResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	assert.Equal(t, "37.5", sale.TotalAmount.String())

	resp, _ = s.do(t, http.MethodPost, "/api/sales/quick?productId="+p.ID+"&quantitySold=10", nil, "operator")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body = s.do(t, http.MethodGet, "/api/products/"+p.ID, nil, "operator")
	var got dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 75, got.QuantityOnHand)

	resp, body = s.do(t, http.MethodGet, "/api/sales/recent?limit=1", nil, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recent []dto.SaleRecordResponse
	require.NoError(t, json.Unmarshal(body, &recent))
	assert.Len(t, recent, 1)

	resp, _ = s.do(t, http.MethodPost, "/api/sales/quick?productId="+p.ID, nil, "operator")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts_DeleteConflictAndForce(t *testing.T) {
	s := newTestServer(t, nil)
	p := s.createProduct(t, "Widget", 10)
	resp, _ := s.do(t, http.MethodPost, "/api/sales/quick?productId="+p.ID+"&quantitySold=2", nil, "operator")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := s.do(t, http.MethodDelete, "/api/products/"+p.ID, nil, "operator")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "Widget")

	resp, _ = s.do(t, http.MethodDelete, "/api/products/"+p.ID+"/force", nil, "operator")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/api/products/"+p.ID+"/force", nil, "admin")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/products/"+p.ID, nil, "operator")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSales_RevenuePeriodParams(t *testing.T) {
	s := newTestServer(t, nil)
	resp, _ := s.do(t, http.MethodGet, "/api/sales/revenue/period?startDate=ayer", nil, "operator")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/sales/revenue/period?startDate=2024-06-30T00:00:00Z&endDate=2024-06-01T00:00:00Z", nil, "operator")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/sales/revenue/period?startDate=2024-06-01T00:00:00Z&endDate=2024-06-30T00:00:00Z", nil, "operator")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogs_ActorFromToken(t *testing.T) {
	s := newTestServer(t, nil)
	p := s.createProduct(t, "Widget", 10)

	resp, body := s.do(t, http.MethodGet, "/api/logs/entity/product/"+p.ID, nil, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []dto.AuditLogResponse
	require.NoError(t, json.Unmarshal(body, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "CREATE", logs[0].Action)
	assert.Equal(t, testUsername, logs[0].UserName)

	resp, body = s.do(t, http.MethodGet, "/api/logs?page=0&size=10", nil, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page dto.AuditLogPageResponse
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 1, page.TotalElements)
}

func TestLogs_ExportXML(t *testing.T) {
	s := newTestServer(t, nil)
	s.createProduct(t, "Widget", 10)

	from := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	to := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	resp, body := s.do(t, http.MethodGet, "/api/logs/export.xml?startDate="+from+"&endDate="+to, nil, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "application/xml")

	digest := resp.Header.Get(apphttp.DigestHeader)
	require.NotEmpty(t, digest)
	ok, err := xmlexport.Verify(body, digest[len("SHA-256="):])
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, string(body), `count="1"`)
}

func TestReports_SummaryPDF(t *testing.T) {
	s := newTestServer(t, nil)
	s.createProduct(t, "Widget", 3)

	resp, body := s.do(t, http.MethodGet, "/api/reports/summary.pdf", nil, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = s.do(t, http.MethodGet, "/api/reports/summary", nil, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary dto.SummaryResponse
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Len(t, summary.LowStock, 1)
}

func TestForecasts(t *testing.T) {
	s := newTestServer(t, nil)
	p := s.createProduct(t, "Widget", 100)

	resp, body := s.do(t, http.MethodGet, "/api/forecasts/product/"+p.ID, nil, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var demand dto.DemandForecastResponse
	require.NoError(t, json.Unmarshal(body, &demand))
	assert.Equal(t, 7, demand.HorizonDays)
	assert.Equal(t, "LOW", demand.Confidence)

	resp, _ = s.do(t, http.MethodGet, "/api/forecasts/product/"+p.ID+"?days=0", nil, "operator")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/forecasts/product/no-existe", nil, "operator")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/forecasts/revenue?days=14", nil, "operator")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestForecasts_Warmup(t *testing.T) {
	s := newTestServer(t, nil)
	s.createProduct(t, "Widget", 100)
	resp, body := s.do(t, http.MethodPost, "/api/forecasts/warmup", nil, "operator")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"products_warmed":1`)

	enq := &fakeEnqueuer{}
	s = newTestServer(t, enq)
	resp, body = s.do(t, http.MethodPost, "/api/forecasts/warmup?days=3", nil, "operator")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Contains(t, string(body), "task-1")
	assert.Equal(t, 3, enq.horizon)
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	s := newTestServer(t, nil)
	resp, body := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "pedro", "email": "pedro@example.com", "password": "supersecreta",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "pedro", "email": "otro@example.com", "password": "supersecreta",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "pedro", "password": "supersecreta"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.NotEmpty(t, login.Token)

	resp, _ = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "pedro", "password": "incorrecta"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

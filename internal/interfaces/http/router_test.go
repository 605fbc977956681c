package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ledger/internal/application/cyclecount"
	"github.com/jhoicas/wms-ledger/internal/application/inbound"
	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/application/outbound"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
	"github.com/jhoicas/wms-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/wms-ledger/internal/interfaces/http"
	"github.com/jhoicas/wms-ledger/pkg/logger"
	"github.com/jhoicas/wms-ledger/pkg/metrics"
)

type testServer struct {
	app        *fiber.App
	store      *memory.Store
	worker     string
	supervisor string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewLedger()
	log := logger.Nop()
	m := metrics.New("test")

	app := fiber.New()
	app.Use(m.Middleware())
	apphttp.Router(app, apphttp.RouterDeps{
		Stock:       inventory.NewStockUseCase(store, ledger, log, m),
		Inbound:     inbound.NewSortUseCase(store, ledger, log, m),
		Outbound:    outbound.NewSupplyUseCase(store, ledger, log, m),
		CycleCounts: cyclecount.NewReconcileUseCase(store, ledger, log, m),
		Metrics:     m,
		JWTSecret:   testJWTSecret,
	})
	return &testServer{
		app:        app,
		store:      store,
		worker:     tokenFor(t, "worker-1", "bodeguero"),
		supervisor: tokenFor(t, "boss-1", "supervisor"),
	}
}

func (s *testServer) do(t *testing.T, method, path, auth string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (s *testServer) seed(t *testing.T, fn func(ctx context.Context, r repository.Repos) error) {
	t.Helper()
	require.NoError(t, s.store.Run(context.Background(), fn))
}

func (s *testServer) init(t *testing.T, product, location string, qty int64) {
	t.Helper()
	status, _ := s.do(t, http.MethodPost, "/api/stock/movements", s.worker, map[string]any{
		"product_id": product, "location_id": location, "type": "INIT", "quantity": qty,
	})
	require.Equal(t, http.StatusCreated, status)
}

func (s *testServer) balance(t *testing.T, product, location string) float64 {
	t.Helper()
	status, body := s.do(t, http.MethodGet, "/api/stock/balance?product_id="+product+"&location_id="+location, s.worker, nil)
	require.Equal(t, http.StatusOK, status)
	return body["quantity"].(float64)
}

func TestRouter_StockMovements(t *testing.T) {
	s := newTestServer(t)
	s.init(t, "P", "A", 10)

	status, body := s.do(t, http.MethodPost, "/api/stock/movements", s.worker, map[string]any{
		"product_id": "P", "from_location_id": "A", "to_location_id": "B", "type": "MOVE", "quantity": 4,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Len(t, body["movements"], 2)

	assert.Equal(t, float64(6), s.balance(t, "P", "A"))
	assert.Equal(t, float64(4), s.balance(t, "P", "B"))

	status, body = s.do(t, http.MethodGet, "/api/stock/products/P/total", s.worker, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(10), body["quantity"])

	status, body = s.do(t, http.MethodGet, "/api/stock/locations/B/total", s.worker, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(4), body["quantity"])

	status, body = s.do(t, http.MethodGet, "/api/stock/history?product_id=P&location_id=A&limit=1", s.worker, nil)
	require.Equal(t, http.StatusOK, status)
	movs := body["movements"].([]any)
	require.Len(t, movs, 1)
	assert.Equal(t, float64(-4), movs[0].(map[string]any)["quantity"])
	assert.Equal(t, "move", movs[0].(map[string]any)["source_type"])
	assert.Equal(t, "worker-1", movs[0].(map[string]any)["actor"])

	status, body = s.do(t, http.MethodGet, "/api/stock/verify?product_id=P&location_id=A", s.worker, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["consistent"])

	status, body = s.do(t, http.MethodPost, "/api/stock/movements", s.worker, map[string]any{
		"product_id": "P", "location_id": "A", "type": "OUT", "quantity": 100, "source_type": "outbound",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, float64(6), s.balance(t, "P", "A"))
}

func TestRouter_StockValidation(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/stock/movements", s.worker, map[string]any{
		"product_id": "P", "location_id": "A", "type": "INIT", "quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, _ = s.do(t, http.MethodGet, "/api/stock/balance?product_id=P", s.worker, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(t, http.MethodGet, "/api/stock/balance?product_id=P&location_id=A", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestRouter_InboundSorting(t *testing.T) {
	s := newTestServer(t)
	line := &entity.InboundLine{InboundID: "IN-1", ProductID: "P", RequestedQuantity: 10, SortState: entity.SortPending}
	s.seed(t, func(ctx context.Context, r repository.Repos) error {
		if err := r.Inbound.Create(ctx, &entity.Inbound{ID: "IN-1", Status: entity.InboundSorting}); err != nil {
			return err
		}
		return r.Inbound.CreateLine(ctx, line)
	})
	base := "/api/inbound/lines/" + line.ID

	status, body := s.do(t, http.MethodPost, base+"/receive", s.worker, map[string]any{"actual_quantity": 5})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(5), body["actual_quantity"])

	status, _ = s.do(t, http.MethodPost, base+"/assignments", s.worker, map[string]any{"location_id": "A", "quantity": 3})
	require.Equal(t, http.StatusCreated, status)

	status, body = s.do(t, http.MethodPost, base+"/commit", s.worker, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NOT_FULLY_ALLOCATED", body["code"])

	status, body = s.do(t, http.MethodPost, base+"/assignments", s.worker, map[string]any{"location_id": "B", "quantity": 3})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "OVER_ALLOCATION", body["code"])

	status, body = s.do(t, http.MethodPost, base+"/assignments", s.worker, map[string]any{"location_id": "B", "quantity": 2})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "SUBMITTED", body["sort_state"])
	assert.Equal(t, float64(0), body["remaining"])

	status, body = s.do(t, http.MethodPost, base+"/commit", s.worker, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "APPLIED", body["sort_state"])
	assert.Equal(t, float64(3), s.balance(t, "P", "A"))
	assert.Equal(t, float64(2), s.balance(t, "P", "B"))

	status, body = s.do(t, http.MethodPost, base+"/commit", s.worker, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_APPLIED", body["code"])

	status, body = s.do(t, http.MethodDelete, base+"/assignments/A", s.worker, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "WRONG_LINE_STATE", body["code"])

	status, body = s.do(t, http.MethodGet, base, s.worker, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["assignments"], 2)

	status, body = s.do(t, http.MethodGet, "/api/inbound/lines/missing", s.worker, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestRouter_OutboundSupply(t *testing.T) {
	s := newTestServer(t)
	s.init(t, "P", "A", 5)
	line := &entity.OutboundLine{OutboundID: "OUT-1", ProductID: "P", Quantity: 4}
	s.seed(t, func(ctx context.Context, r repository.Repos) error {
		if err := r.Outbound.Create(ctx, &entity.Outbound{ID: "OUT-1", Status: entity.OutboundSupplying}); err != nil {
			return err
		}
		return r.Outbound.CreateLine(ctx, line)
	})
	base := "/api/outbound/lines/" + line.ID

	status, body := s.do(t, http.MethodPost, base+"/supplies", s.worker, map[string]any{"location_id": "A", "quantity": 3})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(3), body["supplied_quantity"])
	assert.Equal(t, float64(2), s.balance(t, "P", "A"))

	status, body = s.do(t, http.MethodPost, base+"/supplies", s.worker, map[string]any{"location_id": "A", "quantity": 1})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_LOCATION_ASSIGNMENT", body["code"])

	status, body = s.do(t, http.MethodPost, base+"/supplies", s.worker, map[string]any{"location_id": "B", "quantity": 1})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_FREE_STOCK", body["code"])

	status, body = s.do(t, http.MethodDelete, base+"/supplies/A", s.worker, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["supplied_quantity"])
	assert.Equal(t, float64(5), s.balance(t, "P", "A"))

	status, body = s.do(t, http.MethodDelete, base+"/supplies/A", s.worker, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, body = s.do(t, http.MethodGet, base+"/supply-state", s.worker, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(5), body["free_quantity"])
	assert.Equal(t, false, body["supplied"])
}

func TestRouter_CycleCount(t *testing.T) {
	s := newTestServer(t)
	s.init(t, "P", "A", 5)

	status, body := s.do(t, http.MethodPost, "/api/cycle-counts", s.worker, map[string]any{"scope": "product", "product_id": "P"})
	require.Equal(t, http.StatusCreated, status)
	id := body["id"].(string)
	diffs := body["differences"].([]any)
	require.Len(t, diffs, 1)
	diffID := diffs[0].(map[string]any)["id"].(string)

	status, body = s.do(t, http.MethodPut, "/api/cycle-counts/differences/"+diffID, s.worker, map[string]any{"counted_delta": -2})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(-2), body["counted_delta"])
	assert.Equal(t, "worker-1", body["counter"])

	status, body = s.do(t, http.MethodPost, "/api/cycle-counts/"+id+"/apply", s.worker, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, body = s.do(t, http.MethodPost, "/api/cycle-counts/"+id+"/apply", s.supervisor, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "APPLIED", body["state"])
	assert.Equal(t, "boss-1", body["approved_by"])
	assert.Equal(t, float64(3), s.balance(t, "P", "A"))

	status, body = s.do(t, http.MethodPost, "/api/cycle-counts/"+id+"/reject", s.supervisor, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NOT_OPEN", body["code"])

	status, body = s.do(t, http.MethodGet, "/api/cycle-counts/"+id, s.worker, nil)
	require.Equal(t, http.StatusOK, status)
	applied := body["differences"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(5), applied["applied_quantity"])

	status, body = s.do(t, http.MethodPost, "/api/cycle-counts", s.worker, map[string]any{"scope": "product", "product_id": "EMPTY"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "EMPTY_SCOPE", body["code"])

	status, body = s.do(t, http.MethodPut, "/api/cycle-counts/differences/"+diffID, s.worker, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t)
	s.init(t, "P", "A", 1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "stock_movements_total")
	assert.Contains(t, string(raw), "http_requests_total")
}

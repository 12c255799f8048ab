package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/stockdesk/internal/domain/models"
	"github.com/craftline/stockdesk/internal/gateway"
	"github.com/craftline/stockdesk/internal/server/handlers"
	"github.com/craftline/stockdesk/internal/server/router"
	catalogsvc "github.com/craftline/stockdesk/internal/service/catalog"
	movementsvc "github.com/craftline/stockdesk/internal/service/movements"
	stocksvc "github.com/craftline/stockdesk/internal/service/stock"
	"github.com/craftline/stockdesk/internal/store"
)

type fakeGateway struct {
	movements []models.MovementRecord
	items     []models.CatalogItem
	failAll   bool
}

func (f *fakeGateway) fail(op string) error {
	return &gateway.FetchError{Op: op, Err: errors.New("backend down")}
}

func (f *fakeGateway) ListMovements(context.Context) ([]models.MovementRecord, error) {
	if f.failAll {
		return nil, f.fail("list movements")
	}
	return f.movements, nil
}

func (f *fakeGateway) ListCatalog(context.Context) ([]models.CatalogItem, error) {
	if f.failAll {
		return nil, f.fail("list catalog")
	}
	return f.items, nil
}

func (f *fakeGateway) ListDamaged(context.Context) ([]models.DamagedRecord, error) {
	if f.failAll {
		return nil, f.fail("list damaged")
	}
	return nil, nil
}

func (f *fakeGateway) AppendMovements(_ context.Context, records []models.MovementRecord) error {
	if f.failAll {
		return f.fail("append movements")
	}
	f.movements = append(f.movements, records...)
	return nil
}

func (f *fakeGateway) AppendCatalogItems(_ context.Context, items []models.CatalogItem) error {
	if f.failAll {
		return f.fail("append catalog items")
	}
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeGateway) UpdateCatalogItem(context.Context, models.CatalogItem) error {
	if f.failAll {
		return f.fail("update catalog item")
	}
	return nil
}

func (f *fakeGateway) AppendDamaged(context.Context, []models.DamagedRecord) error {
	if f.failAll {
		return f.fail("append damaged")
	}
	return nil
}

func newTestServer(t *testing.T, gw *fakeGateway) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	engine := stocksvc.NewEngine(nil)
	stockService := stocksvc.NewService(gw, st, engine, nil)
	movementService := movementsvc.NewService(gw, st, nil)
	catalogService := catalogsvc.NewService(gw, st, nil)

	stockHandler := handlers.NewStockHandler(stockService, nil, nil)
	writeHandler := handlers.NewWriteHandler(movementService, catalogService, nil)
	return router.New(stockHandler, writeHandler, st, nil, false), st
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostMovements_CreatedAndVisibleInStockView(t *testing.T) {
	gw := &fakeGateway{items: []models.CatalogItem{{ItemCode: "X", Description: "widget"}}}
	r, st := newTestServer(t, gw)

	w := doJSON(r, http.MethodPost, "/api/movements",
		`{"items":[{"item_code":"X","stock_qty":100,"form_type":"Inward","plant_name":"P1","date":"01-01-2025"}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, st.Movements(), 1)

	w = doJSON(r, http.MethodGet, "/api/stock", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []struct {
			ItemCode     string          `json:"item_code"`
			UnplannedQty json.RawMessage `json:"unplanned_stock_qty"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "X", resp.Items[0].ItemCode)
	assert.Equal(t, `"100"`, string(resp.Items[0].UnplannedQty))
}

func TestPostMovements_ValidationEnumeratesRows(t *testing.T) {
	r, st := newTestServer(t, &fakeGateway{})

	w := doJSON(r, http.MethodPost, "/api/movements",
		`{"items":[{"item_code":"","stock_qty":-5,"form_type":"Bogus"}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string              `json:"error"`
		Details []models.FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	assert.Len(t, resp.Details, 3)
	assert.Empty(t, st.Movements())
}

func TestPostMovements_GatewayDownMapsToBadGateway(t *testing.T) {
	r, st := newTestServer(t, &fakeGateway{failAll: true})

	w := doJSON(r, http.MethodPost, "/api/movements",
		`{"items":[{"item_code":"X","stock_qty":5,"form_type":"Inward"}]}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, st.Movements())
}

func TestPostItems_GeneratesCode(t *testing.T) {
	r, _ := newTestServer(t, &fakeGateway{})

	w := doJSON(r, http.MethodPost, "/api/items",
		`{"items":[{"description":"Sunrise Mango Pickle 2 x 5 Kg","plant_name":"P1"}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Items []models.CatalogItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "SUNMP2X5KG", resp.Items[0].ItemCode)
}

func TestPreviewCode(t *testing.T) {
	r, _ := newTestServer(t, &fakeGateway{})

	w := doJSON(r, http.MethodPost, "/api/items/preview-code", `{"description":"Turmeric"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"item_code":"TUR"}`, w.Body.String())
}

func TestStock_GatewayDownOnFirstLoad(t *testing.T) {
	r, _ := newTestServer(t, &fakeGateway{failAll: true})

	w := doJSON(r, http.MethodGet, "/api/stock", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHealthz(t *testing.T) {
	r, _ := newTestServer(t, &fakeGateway{})

	w := doJSON(r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

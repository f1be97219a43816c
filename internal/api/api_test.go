package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository/memory"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.SaveMaterial(ctx, domain.RawMaterial{
		ID: "bean", Name: "Espresso beans", PurchasePrice: decimal.NewFromInt(15000),
		PurchaseUnitQty: decimal.NewFromInt(1000), Unit: domain.UnitGram,
	}))
	require.NoError(t, store.SaveRecipe(ctx, domain.MenuRecipe{
		ID: "americano", Name: "Americano", Category: "coffee", SalePrice: decimal.NewFromInt(4000),
		Ingredients: []domain.RecipeIngredient{{MaterialID: "bean", QuantityUsed: decimal.NewFromInt(20)}},
	}))
	require.NoError(t, store.SaveItem(ctx, domain.InventoryItem{
		ID: "inv-bean", MaterialID: "bean", NameLocalized: "Beans", CurrentStock: 1000,
		Unit: domain.UnitGram, LeadTimeDays: 3,
	}))

	svc := service.NewAnalyticsService(store.Repositories(), nil, service.Options{
		Now: func() time.Time { return fixedNow },
		IDs: domain.NewSequenceGenerator("api-test"),
	})
	return NewRouter(&Services{Analytics: svc}, nil), store
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCreateSaleThenSummary(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
		"date": "2025-11-03", "time": "09:15:00", "item_name": "Americano",
		"category": "coffee", "quantity": 3, "unit_price": "4000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "12000", created["revenue"])
	assert.Equal(t, "Mon", created["weekday"])

	rec = do(t, router, http.MethodGet, "/api/v1/analytics/summary?start=2025-11-01&end=2025-11-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode(t, rec)
	assert.Equal(t, float64(1), summary["count"])
	assert.Equal(t, "12000", summary["revenue"])
}

func TestCreateSaleValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
		"date": "2025-11-31", "time": "09:15:00", "item_name": "Americano", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "failed to record sale", body["error"])
	assert.Contains(t, body["details"], "invalid date")

	rec = do(t, router, http.MethodPost, "/api/v1/sales", map[string]any{"item_name": "Americano"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReversedRangeIsBadRequest(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/api/v1/analytics/comparison?start=2025-11-07&end=2025-11-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/analytics/top-items?period=2025-Q7", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/analytics/series?start=2025-11-01&end=2025-11-07&granularity=minutely", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTopItemsRejectsBadLimit(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/analytics/top-items?period=2025-11&limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid limit", decode(t, rec)["error"])

	rec = do(t, router, http.MethodGet, "/api/v1/analytics/top-items?period=2025-11&limit=3", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateMissingSaleIsNotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodPut, "/api/v1/sales/nope", map[string]any{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecipeCostingRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/costing/recipes/americano", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "300", body["cost"])
	assert.Equal(t, "healthy", body["band"])

	rec = do(t, router, http.MethodGet, "/api/v1/costing/recipes/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIntakeEditWindow(t *testing.T) {
	router, _ := newTestRouter(t)

	old := fixedNow.Add(-48 * time.Hour)
	rec := do(t, router, http.MethodPost, "/api/v1/inventory/intakes", map[string]any{
		"item_id": "inv-bean", "quantity": 500, "unit_cost": "15", "received_at": old,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode(t, rec)["id"].(string)

	rec = do(t, router, http.MethodDelete, "/api/v1/inventory/intakes/"+id, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/inventory/intakes", map[string]any{
		"item_id": "inv-bean", "quantity": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id = decode(t, rec)["id"].(string)

	rec = do(t, router, http.MethodDelete, "/api/v1/inventory/intakes/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDailySummaryLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	do(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
		"date": "2025-11-03", "time": "09:15:00", "item_name": "Americano", "quantity": 2, "unit_price": "4000",
	})

	rec := do(t, router, http.MethodPost, "/api/v1/summaries/daily/2025-11-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Americano", decode(t, rec)["top_item"])

	rec = do(t, router, http.MethodGet, "/api/v1/summaries/daily?start=2025-11-01&end=2025-11-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["summaries"], 1)

	rec = do(t, router, http.MethodDelete, "/api/v1/summaries/daily/2025-11-03", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodDelete, "/api/v1/summaries/daily/2025-11-03", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardAndInventory(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, map[string]any{"start": "2025-11-02", "end": "2025-11-08"}, body["range"])

	rec = do(t, router, http.MethodGet, "/api/v1/inventory/health?status=sufficient", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)
}

func TestAssistantDisabled(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodPost, "/api/v1/assistant/ask", map[string]any{"question": "How was today?"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"https://a.example, https://b.example", " "})
	assert.False(t, all)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, origins)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}

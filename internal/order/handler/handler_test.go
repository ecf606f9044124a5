package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-checkout-service/internal/auth"
	"github.com/fekuna/omnipos-checkout-service/internal/memstore"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/order/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/order/usecase"
	"github.com/fekuna/omnipos-checkout-service/pkg/httpx"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "op-token"

func setupServer(t *testing.T) (*gin.Engine, *memstore.Store, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	store.PutInventory(model.Inventory{ID: "inv-1", ProductID: "P1", Quantity: 10, SalePrice: decimal.NewFromInt(50)})

	log := logger.NewNop()
	uc := usecase.NewOrderUseCase(memstore.NewOrders(store), memstore.NewInventory(store), nil, nil, usecase.Options{}, log)

	o, err := uc.Write(context.Background(), &dto.OrderDraft{
		Currency: "IDR",
		Subtotal: decimal.NewFromInt(100),
		Total:    decimal.NewFromInt(100),
		Contact:  types.JSONText(`{"name":"Ana","email":"ana@example.com"}`),
		Items: []model.OrderItemLine{{
			ProductID: "P1", ProductName: "Tea", Quantity: 2,
			UnitPrice: decimal.NewFromInt(50), LineTotal: decimal.NewFromInt(100),
		}},
	})
	require.NoError(t, err)

	r := httpx.NewEngine(log)
	NewOrderHandler(uc, log).RegisterRoutes(r.Group("/api/v1"), auth.RequireOperator(token))
	return r, store, o.ID
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOrderStatusFlow(t *testing.T) {
	r, store, id := setupServer(t)

	w := do(t, r, http.MethodGet, "/api/v1/orders/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPatch, "/api/v1/orders/"+id+"/status", map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res dto.TransitionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Changed)
	assert.Equal(t, model.StatusAccepted, res.Order.Status)
	qty, _ := store.Quantity("inv-1")
	assert.Equal(t, int64(8), qty)

	w = do(t, r, http.MethodGet, "/api/v1/orders/"+id+"/movements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var moves httpx.ListResponse[model.InventoryMovement]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &moves))
	assert.Equal(t, 1, moves.Total)

	w = do(t, r, http.MethodPatch, "/api/v1/orders/"+id+"/status", map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errRes httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errRes))
	assert.Equal(t, "INVALID_TRANSITION", errRes.Error.Code)
}

func TestOrderErrors(t *testing.T) {
	r, _, id := setupServer(t)

	w := do(t, r, http.MethodGet, "/api/v1/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPatch, "/api/v1/orders/"+id+"/status", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+id, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListCustomers(t *testing.T) {
	r, _, _ := setupServer(t)

	w := do(t, r, http.MethodGet, "/api/v1/customers?search=ana&page_size=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res httpx.ListResponse[model.Customer]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 5, res.PageSize)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Items[0].OrderCount)
}

func TestRegisterRoutesGuardsCustomers(t *testing.T) {
	r, _, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRoutesLeavesGuardSliceUntouched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	store := memstore.New()
	uc := usecase.NewOrderUseCase(memstore.NewOrders(store), memstore.NewInventory(store), nil, nil, usecase.Options{}, log)

	guard := make([]gin.HandlerFunc, 1, 4)
	guard[0] = auth.RequireOperator(token)

	NewOrderHandler(uc, log).RegisterRoutes(gin.New().Group("/api/v1"), guard...)

	assert.Nil(t, guard[:2][1])
}

package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmsim/internal/metrics"
	"github.com/mamadbah2/farmsim/internal/persistence"
	"github.com/mamadbah2/farmsim/internal/server/handlers"
	"github.com/mamadbah2/farmsim/internal/service/farm"
	"github.com/mamadbah2/farmsim/internal/service/game"
	"github.com/mamadbah2/farmsim/internal/simulation"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := persistence.NewFileStore(filepath.Join(t.TempDir(), "savegame.json"))
	rec := metrics.NewRecorder()
	session := game.NewSession(farm.NewManager(store, simulation.NewRand(7), nil), rec, nil)
	return New(handlers.NewFarmHandler(session, nil, nil), rec.Handler(), nil)
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Healthz(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "farmsim_money")
}

func TestRouter_BuyAnimalAndStats(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/animals", map[string]string{"type": "duck", "name": "Daisy"})
	require.Equal(t, http.StatusCreated, w.Code)

	var animal struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &animal))
	assert.Equal(t, 1, animal.ID)
	assert.Equal(t, "Daisy", animal.Name)

	w = do(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats handlers.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.LivingAnimals)
	assert.Equal(t, "My Farm", stats.FarmName)
	assert.Equal(t, 1.0, stats.Speed)

	w = do(t, r, http.MethodPost, "/api/animals/1/pet", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodDelete, "/api/animals/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "price")
}

func TestRouter_ErrorStatuses(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown animal type", http.MethodPost, "/api/animals", map[string]string{"type": "dragon"}, http.StatusBadRequest},
		{"missing body field", http.MethodPost, "/api/animals", map[string]string{}, http.StatusBadRequest},
		{"non numeric id", http.MethodPost, "/api/animals/abc/pet", nil, http.StatusBadRequest},
		{"unknown animal", http.MethodPost, "/api/animals/99/pet", nil, http.StatusNotFound},
		{"negative feed amount", http.MethodPost, "/api/feeds", map[string]any{"type": "hay", "amount": -1}, http.StatusBadRequest},
		{"warehouse full", http.MethodPost, "/api/feeds", map[string]any{"type": "hay", "amount": 100000}, http.StatusUnprocessableEntity},
		{"product out of stock", http.MethodPost, "/api/products/cow_product/sell", map[string]any{"amount": 1}, http.StatusNotFound},
		{"unknown building", http.MethodPost, "/api/buildings/castle/upgrade", nil, http.StatusNotFound},
		{"zero speed", http.MethodPut, "/api/game/speed", map[string]any{"speed": 0}, http.StatusBadRequest},
		{"negative speed", http.MethodPut, "/api/game/speed", map[string]any{"speed": -2}, http.StatusBadRequest},
		{"unbounded speed", http.MethodPut, "/api/game/speed", map[string]any{"speed": 1e300}, http.StatusBadRequest},
		{"load without save", http.MethodPost, "/api/game/load", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_ZeroAmountReachesManager(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/feeds", map[string]any{"type": "hay", "amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "amount must be positive")

	w = do(t, r, http.MethodGet, "/api/notifications", nil)
	assert.Contains(t, w.Body.String(), "Amount must be positive.")
}

func TestRouter_SaveLoadRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/game/new", map[string]string{"farm_name": "Sunny Acres"}).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/animals", map[string]string{"type": "chicken"}).Code)
	require.Equal(t, http.StatusNoContent, do(t, r, http.MethodPost, "/api/game/save", nil).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/game/new", nil).Code)

	w := do(t, r, http.MethodPost, "/api/game/load", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state struct {
		FarmName string `json:"farm_name"`
		Animals  []struct {
			Type string `json:"animal_type"`
		} `json:"animals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "Sunny Acres", state.FarmName)
	require.Len(t, state.Animals, 1)
	assert.Equal(t, "chicken", state.Animals[0].Type)

	w = do(t, r, http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Loaded")

	w = do(t, r, http.MethodGet, "/api/reports", nil)
	assert.JSONEq(t, `{"reports":[]}`, w.Body.String())
}

func TestRouter_BulkActions(t *testing.T) {
	r := newTestRouter(t)

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/animals", map[string]string{"type": "chicken"}).Code)

	w := do(t, r, http.MethodPost, "/api/actions/feed-all", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"fed":0}`, w.Body.String())

	w = do(t, r, http.MethodPost, "/api/actions/collect-all", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"collected":1}`, w.Body.String())

	w = do(t, r, http.MethodPost, "/api/actions/sell-all", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "revenue")
}

package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipment-dashboard/internal/analytics"
	"shipment-dashboard/internal/api"
	"shipment-dashboard/internal/cache"
	"shipment-dashboard/internal/dashboard"
	"shipment-dashboard/internal/shipment"
)

var testNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

const shipmentsPayload = `{
  "aktif": [
    {"doc_id": "A1", "no_resi": "RESI001", "buyer": "Budi", "item_name": "Kopi",
     "route_origin": "Jakarta", "route_dest": "Bandung",
     "status": "Pesanan anda sedang kami proses", "price": 50000, "qty": 2,
     "tanggal_pembelian": "2026-10-18T10:00:00Z", "eta_days": 2},
    {"doc_id": "A2", "no_resi": "RESI002", "buyer": "Sari", "item_name": "Buku",
     "route_origin": "Surabaya", "route_dest": "Malang",
     "status": "Kurir mengirim paket", "price": "25000", "qty": "1",
     "tanggal_pembelian": "2026-10-10T10:00:00Z", "eta_text": "besok"}
  ],
  "history": [
    {"doc_id": "H1", "no_resi": "RESI003", "buyer": "Andi", "item_name": "Teh",
     "route_origin": "Jakarta", "route_dest": "Bandung",
     "status": "Pesanan Selesai", "price": 30000, "qty": 1,
     "tanggal_pembelian": "2026-09-20T10:00:00Z", "eta_days": 3}
  ]
}`

// backendStub imitates the shipment backend.
type backendStub struct {
	mu       sync.Mutex
	down     bool
	fetches  int
	updates  []string
	created  map[string]any
	resiSeen string
}

func (b *backendStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.down {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/health":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet && r.URL.Path == "/api/shipments":
		b.fetches++
		io.WriteString(w, shipmentsPayload)
	case r.Method == http.MethodGet && r.URL.Path == "/status":
		b.resiSeen = r.URL.Query().Get("no_resi")
		if b.resiSeen != "RESI001" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"status":"error","message":"Nomor resi tidak ditemukan"}`)
			return
		}
		io.WriteString(w, `{"no_resi":"RESI001","status_pengiriman":"Kurir mengirim paket","eta_days":2}`)
	case r.Method == http.MethodPost && r.URL.Path == "/shipments":
		json.NewDecoder(r.Body).Decode(&b.created)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"no_resi":"RESI-NEW","status_pengiriman":"Pesanan anda sedang kami proses"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/status/update":
		r.ParseForm()
		if r.PostForm.Get("doc_id") == "MISSING" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		b.updates = append(b.updates, r.PostForm.Get("doc_id")+"="+r.PostForm.Get("status"))
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *backendStub) setDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = down
}

func (b *backendStub) fetchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetches
}

type testEnv struct {
	router  http.Handler
	backend *backendStub
	svc     *dashboard.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stub := &backendStub{}
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := api.NewClient(&api.ClientConfig{BaseURL: server.URL, Timeout: 5 * time.Second, Logger: logger})
	require.NoError(t, err)

	engine := analytics.NewEngine(analytics.WithClock(func() time.Time { return testNow }), analytics.WithLocation(time.UTC))
	svc := dashboard.NewService(client, engine, dashboard.Options{Logger: logger})

	health := NewHealthHandler(client, time.Second, logger)
	dash := NewDashboardHandler(svc, logger)
	orders := NewOrderHandler(svc, logger)

	r := chi.NewRouter()
	r.Get("/api/health", health.HealthCheck)
	r.Get("/api/statuses", dash.GetStatuses)
	r.Get("/api/dashboard", dash.GetDashboard)
	r.Get("/api/analytics", dash.GetAnalytics)
	r.Get("/api/orders", orders.GetOrders)
	r.Get("/api/history", orders.GetHistory)
	r.Get("/api/track", orders.Track)
	r.Post("/api/orders", orders.CreateOrder)
	r.Post("/api/orders/{docID}/status", orders.SetStatus)
	r.Post("/api/orders/{docID}/complete", orders.Complete)

	return &testEnv{router: r, backend: stub, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "ok", body["backend"])

	env.backend.setDown(true)
	rec, body = env.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestHealthCheckReportsTrackCache(t *testing.T) {
	stub := &backendStub{}
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := api.NewClient(&api.ClientConfig{BaseURL: server.URL, Timeout: 5 * time.Second, Logger: logger})
	require.NoError(t, err)

	trackCache := cache.NewManager(time.Minute, logger)
	t.Cleanup(trackCache.Close)
	trackCache.Set("RESI001", &api.TrackingResult{NoResi: "RESI001"})

	health := NewHealthHandler(client, time.Second, logger).WithTrackCache(trackCache)
	rec := httptest.NewRecorder()
	health.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.TrackCache)
	assert.True(t, body.TrackCache.Enabled)
	assert.Equal(t, "1m0s", body.TrackCache.TTL)
	assert.Equal(t, 1, body.TrackCache.Total)
}

func TestGetStatuses(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/statuses", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], len(shipment.Statuses))
}

func TestGetDashboard(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	data := body["data"].(map[string]any)
	stats := data["stats"].(map[string]any)
	assert.EqualValues(t, 3, stats["total"])
	assert.EqualValues(t, 1, stats["proses"])
	assert.EqualValues(t, 1, stats["selesai"])
	assert.Len(t, data["months"], analytics.DefaultMonthsBack)
	assert.Len(t, data["recent"], 2)
}

func TestGetDashboard_BackendDown(t *testing.T) {
	env := newTestEnv(t)
	env.backend.setDown(true)

	rec, body := env.do(t, http.MethodGet, "/api/dashboard", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestGetAnalytics(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	metrics := body["data"].(map[string]any)["metrics"].(map[string]any)
	assert.EqualValues(t, 105000, metrics["totalRevenue"])
	assert.EqualValues(t, 2, metrics["activeRoutes"])
	assert.EqualValues(t, 33, metrics["successRate"])
}

func TestGetOrders(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 2, data["total"])
	assert.Len(t, data["rows"], 2)
	assert.Equal(t, 1, env.backend.fetchCount())

	rec, body = env.do(t, http.MethodGet, "/api/orders?q=sari", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := body["data"].(map[string]any)["rows"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "A2", rows[0].(map[string]any)["docId"])
	assert.Equal(t, "besok", rows[0].(map[string]any)["eta"])
	assert.Equal(t, 1, env.backend.fetchCount(), "filtering reuses loaded data")

	_, body = env.do(t, http.MethodGet, "/api/orders?status="+strings.ReplaceAll(shipment.StatusProcessing, " ", "+"), "")
	rows = body["data"].(map[string]any)["rows"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "A1", rows[0].(map[string]any)["docId"])
}

func TestGetHistory(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := body["data"].(map[string]any)["rows"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "H1", rows[0].(map[string]any)["docId"])
	assert.Equal(t, "3 hari", rows[0].(map[string]any)["eta"])
}

func TestTrack(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantError  string
	}{
		{"found", "/api/track?no_resi=RESI001", http.StatusOK, ""},
		{"trimmed", "/api/track?no_resi=+RESI001+", http.StatusOK, ""},
		{"not found", "/api/track?no_resi=NOPE", http.StatusNotFound, "Nomor resi tidak ditemukan"},
		{"empty", "/api/track", http.StatusBadRequest, dashboard.ErrEmptyResi.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := env.do(t, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError == "" {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "RESI001", body["data"].(map[string]any)["no_resi"])
				return
			}
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/orders",
		`{"id_pembeli":" B-1 ","nama_barang":"Kopi","kuantitas":2,"asal_pengirim":"Jakarta","tujuan":"Bandung"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "RESI-NEW", body["data"].(map[string]any)["no_resi"])
	assert.Equal(t, "B-1", env.backend.created["id_pembeli"])
	assert.EqualValues(t, 2, env.backend.created["kuantitas"])
}

func TestCreateOrder_Invalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"malformed json", `{"id_pembeli":`, "invalid JSON"},
		{"missing fields", `{"kuantitas":1}`, "id_pembeli wajib diisi"},
		{"zero quantity", `{"id_pembeli":"B","nama_barang":"K","kuantitas":0,"asal_pengirim":"A","tujuan":"B"}`, "kuantitas harus lebih dari 0"},
		{"blank buyer", `{"id_pembeli":"  ","nama_barang":"K","kuantitas":1,"asal_pengirim":"A","tujuan":"B"}`, "id_pembeli wajib diisi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := env.do(t, http.MethodPost, "/api/orders", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, body["error"], tt.wantError)
		})
	}
	assert.Nil(t, env.backend.created)
}

func TestSetStatus(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/orders", "")

	rec, body := env.do(t, http.MethodPost, "/api/orders/A1/status", `{"status":"2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shipment.StatusPickup, body["data"].(map[string]any)["status"])
	assert.Equal(t, []string{"A1=" + shipment.StatusPickup}, env.backend.updates)

	c, ok := env.svc.Session().Snapshot()
	require.True(t, ok)
	assert.Equal(t, shipment.StatusPickup, c.FindActive("A1").Status)
}

func TestSetStatus_Invalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
	}{
		{"unknown status", "/api/orders/A1/status", `{"status":"Hilang"}`, http.StatusBadRequest},
		{"index out of range", "/api/orders/A1/status", `{"status":"9"}`, http.StatusBadRequest},
		{"missing status", "/api/orders/A1/status", `{}`, http.StatusBadRequest},
		{"unknown order", "/api/orders/MISSING/status", `{"status":"1"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := env.do(t, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, false, body["success"])
		})
	}
	assert.Empty(t, env.backend.updates)
}

func TestComplete(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/orders", "")

	rec, body := env.do(t, http.MethodPost, "/api/orders/A2/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shipment.StatusCompleted, body["data"].(map[string]any)["status"])

	c, _ := env.svc.Session().Snapshot()
	assert.Nil(t, c.FindActive("A2"))
	assert.NotNil(t, c.FindHistory("A2"))
}

func TestComplete_BackendDown(t *testing.T) {
	env := newTestEnv(t)
	env.backend.setDown(true)

	rec, body := env.do(t, http.MethodPost, "/api/orders/A2/complete", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, api.MsgUpdateFailed, body["error"])
}

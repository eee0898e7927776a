package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"shipment-dashboard/internal/api"
	"shipment-dashboard/internal/dashboard"
	"shipment-dashboard/internal/shipment"
)

const maxBodyBytes = 1 << 20

// OrderHandler handles the order tables and order mutations
type OrderHandler struct {
	svc      *dashboard.Service
	validate *validator.Validate
	logger   *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(svc *dashboard.Service, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		svc:      svc,
		validate: newValidator(),
		logger:   logger,
	}
}

// StatusRequest is the body of POST /api/orders/{docID}/status. Status is
// either a status text or its 1-based position in the list.
type StatusRequest struct {
	Status string `json:"status" validate:"required,max=100"`
}

// GetOrders handles GET /api/orders?q=&status=
// Filtering reuses the last loaded data; a bare request reloads it.
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	q := orderQuery(r)
	view, err := h.svc.Orders(r.Context(), q)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, view)
}

// GetHistory handles GET /api/history?q=
func (h *OrderHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	q := orderQuery(r)
	q.Status = ""
	view, err := h.svc.History(r.Context(), q)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, view)
}

// Track handles GET /api/track?no_resi=
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Track(r.Context(), r.URL.Query().Get("no_resi"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, result)
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req api.CreateShipmentRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	req.BuyerID = strings.TrimSpace(req.BuyerID)
	req.ItemName = strings.TrimSpace(req.ItemName)
	req.Origin = strings.TrimSpace(req.Origin)
	req.Dest = strings.TrimSpace(req.Dest)
	if err := validateStruct(h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	created, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w, http.StatusCreated, created)
}

// SetStatus handles POST /api/orders/{docID}/status
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := validateStruct(h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	status, err := shipment.ParseStatus(req.Status)
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: %v", dashboard.ErrInvalidStatus, err))
		return
	}

	docID := chi.URLParam(r, "docID")
	if err := h.svc.SetStatus(r.Context(), docID, status); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]string{"docId": docID, "status": status})
}

// Complete handles POST /api/orders/{docID}/complete
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := h.svc.Complete(r.Context(), docID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]string{"docId": docID, "status": shipment.StatusCompleted})
}

func (h *OrderHandler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

func orderQuery(r *http.Request) dashboard.OrderQuery {
	query := r.URL.Query()
	q := dashboard.OrderQuery{
		Search: query.Get("q"),
		Status: query.Get("status"),
	}
	q.Cached = q.Search != "" || q.Status != ""
	return q
}

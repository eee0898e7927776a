package handlers

import (
	"log/slog"
	"net/http"

	"shipment-dashboard/internal/dashboard"
	"shipment-dashboard/internal/shipment"
)

// DashboardHandler serves the dashboard and analytics tabs
type DashboardHandler struct {
	svc    *dashboard.Service
	logger *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *dashboard.Service, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, view)
}

// GetAnalytics handles GET /api/analytics
func (h *DashboardHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Analytics(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, view)
}

// GetStatuses handles GET /api/statuses
func (h *DashboardHandler) GetStatuses(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, shipment.Statuses)
}

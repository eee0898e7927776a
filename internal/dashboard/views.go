package dashboard

import (
	"time"

	"shipment-dashboard/internal/analytics"
	"shipment-dashboard/internal/format"
	"shipment-dashboard/internal/shipment"
)

// DashboardView is the landing tab: counters, the shipments chart and the
// most recent active orders.
type DashboardView struct {
	Stats    analytics.Stats         `json:"stats"`
	Months   []analytics.MonthBucket `json:"months"`
	Recent   []RecentRow             `json:"recent"`
	LoadedAt time.Time               `json:"loadedAt"`
}

// RecentRow is one line of the recent orders table.
type RecentRow struct {
	DocID        string  `json:"docId"`
	NoResi       string  `json:"noResi"`
	Buyer        string  `json:"buyer"`
	Route        string  `json:"route"`
	Status       string  `json:"status"`
	StatusClass  string  `json:"statusClass"`
	PurchaseDate string  `json:"purchaseDate"`
	Price        float64 `json:"price"`
	PriceDisplay string  `json:"priceDisplay"`
}

// OrdersView lists active orders after search and status filtering.
type OrdersView struct {
	Search   string     `json:"search,omitempty"`
	Status   string     `json:"status,omitempty"`
	Statuses []string   `json:"statuses"`
	Total    int        `json:"total"`
	Rows     []OrderRow `json:"rows"`
}

// OrderRow is one line of the active orders table.
type OrderRow struct {
	Index        int      `json:"index"`
	DocID        string   `json:"docId"`
	NoResi       string   `json:"noResi"`
	Buyer        string   `json:"buyer"`
	Items        []string `json:"items"`
	Quantity     int      `json:"quantity"`
	Route        string   `json:"route"`
	Price        float64  `json:"price"`
	PriceDisplay string   `json:"priceDisplay"`
	Eta          string   `json:"eta"`
	Status       string   `json:"status"`
	StatusClass  string   `json:"statusClass"`
}

// HistoryView lists completed orders after search filtering.
type HistoryView struct {
	Search string       `json:"search,omitempty"`
	Total  int          `json:"total"`
	Rows   []HistoryRow `json:"rows"`
}

// HistoryRow is one line of the history table.
type HistoryRow struct {
	Index        int      `json:"index"`
	DocID        string   `json:"docId"`
	NoResi       string   `json:"noResi"`
	Buyer        string   `json:"buyer"`
	Items        []string `json:"items"`
	Quantity     int      `json:"quantity"`
	Route        string   `json:"route"`
	Price        float64  `json:"price"`
	PriceDisplay string   `json:"priceDisplay"`
	Eta          string   `json:"eta"`
	PurchaseDate string   `json:"purchaseDate"`
}

// AnalyticsView is the analytics tab.
type AnalyticsView struct {
	Metrics    analytics.Metrics        `json:"metrics"`
	Revenue    []analytics.RevenuePoint `json:"revenue"`
	Statuses   []analytics.StatusSlice  `json:"statuses"`
	TopRoutes  []analytics.RouteCount   `json:"topRoutes"`
	Monthly    analytics.MonthSummary   `json:"monthly"`
	MonthLabel string                   `json:"monthLabel"`
	LoadedAt   time.Time                `json:"loadedAt"`
}

func buildDashboard(e *analytics.Engine, c shipment.Collection, monthsBack, recentLimit int) DashboardView {
	recent := c.Aktif
	if recentLimit >= 0 && len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	rows := make([]RecentRow, 0, len(recent))
	for _, r := range recent {
		rows = append(rows, RecentRow{
			DocID:        r.DocID,
			NoResi:       dash(r.NoResi),
			Buyer:        dash(r.Buyer),
			Route:        r.RouteLabel(),
			Status:       dash(r.Status),
			StatusClass:  shipment.StatusClass(r.Status),
			PurchaseDate: displayDate(e, r.PurchasedAt),
			Price:        r.Amount(),
			PriceDisplay: format.Currency(r.Amount()),
		})
	}

	return DashboardView{
		Stats:  e.CalculateStats(c.Aktif, c.History),
		Months: e.GroupByMonth(c.All(), monthsBack),
		Recent: rows,
	}
}

// buildOrders filters the active orders and resolves each row against the
// unfiltered record with the same doc ID.
func buildOrders(e *analytics.Engine, c shipment.Collection, search, status string) OrdersView {
	filtered := shipment.Filter(c.Aktif, search, status)

	rows := make([]OrderRow, 0, len(filtered))
	for i := range filtered {
		r := &filtered[i]
		full := c.FindActive(r.DocID)
		rows = append(rows, OrderRow{
			Index:        i + 1,
			DocID:        r.DocID,
			NoResi:       dash(r.NoResi),
			Buyer:        dash(r.Buyer),
			Items:        shipment.ItemLines(r, full),
			Quantity:     shipment.Quantity(r, full),
			Route:        r.RouteLabel(),
			Price:        r.Amount(),
			PriceDisplay: format.Currency(r.Amount()),
			Eta:          e.ResolveEtaDisplay(r, full),
			Status:       dash(r.Status),
			StatusClass:  shipment.StatusClass(r.Status),
		})
	}

	return OrdersView{
		Search:   search,
		Status:   status,
		Statuses: shipment.Statuses,
		Total:    len(c.Aktif),
		Rows:     rows,
	}
}

func buildHistory(e *analytics.Engine, c shipment.Collection, search string) HistoryView {
	filtered := shipment.Filter(c.History, search, "")

	rows := make([]HistoryRow, 0, len(filtered))
	for i := range filtered {
		r := &filtered[i]
		full := c.FindHistory(r.DocID)
		rows = append(rows, HistoryRow{
			Index:        i + 1,
			DocID:        r.DocID,
			NoResi:       dash(r.NoResi),
			Buyer:        dash(r.Buyer),
			Items:        shipment.ItemLines(r, full),
			Quantity:     shipment.Quantity(r, full),
			Route:        r.RouteLabel(),
			Price:        r.Amount(),
			PriceDisplay: format.Currency(r.Amount()),
			Eta:          e.ResolveHistoryEtaDisplay(r, full),
			PurchaseDate: displayDate(e, r.PurchasedAt),
		})
	}

	return HistoryView{
		Search: search,
		Total:  len(c.History),
		Rows:   rows,
	}
}

func buildAnalytics(e *analytics.Engine, c shipment.Collection, monthsBack int) AnalyticsView {
	all := c.All()
	return AnalyticsView{
		Metrics:    e.CalculateAnalytics(c.Aktif, c.History),
		Revenue:    e.RevenueByMonth(all, monthsBack),
		Statuses:   analytics.StatusBreakdown(c.Aktif, c.History),
		TopRoutes:  analytics.TopRoutes(all),
		Monthly:    e.MonthlySummary(all, c.History),
		MonthLabel: format.MonthYear(e.Now()),
	}
}

// displayDate formats a date field for a table cell: "-" when it is empty,
// the raw text when it cannot be parsed.
func displayDate(e *analytics.Engine, v shipment.Value) string {
	if !v.Truthy() {
		return "-"
	}
	if t, ok := e.NormalizeDate(v); ok {
		return format.Date(t)
	}
	return v.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

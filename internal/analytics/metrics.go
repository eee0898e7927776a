package analytics

import (
	"shipment-dashboard/internal/shipment"
)

// Metrics are the key figures of the analytics tab.
type Metrics struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	RevenueGrowth int     `json:"revenueGrowth"`
	AvgDelivery   int     `json:"avgDelivery"`
	SuccessRate   int     `json:"successRate"`
	ActiveRoutes  int     `json:"activeRoutes"`
}

// CalculateAnalytics computes revenue, month-over-month revenue growth,
// average ETA in days, the share of completed shipments and the number of
// distinct routes.
func (e *Engine) CalculateAnalytics(aktif, history []shipment.Record) Metrics {
	all := make([]shipment.Record, 0, len(aktif)+len(history))
	all = append(all, aktif...)
	all = append(all, history...)

	now := e.Now()
	thisYear, thisMonth := now.Year(), now.Month()
	lastYear, lastMonth := thisYear, thisMonth-1
	if thisMonth == 1 {
		lastYear, lastMonth = thisYear-1, 12
	}

	var (
		m           Metrics
		thisRevenue float64
		lastRevenue float64
		etaSum      float64
		etaCount    int
		routes      = make(map[string]struct{})
	)

	for _, r := range all {
		amount := r.Amount()
		m.TotalRevenue += amount

		if e.inMonth(r, thisYear, thisMonth) {
			thisRevenue += amount
		} else if e.inMonth(r, lastYear, lastMonth) {
			lastRevenue += amount
		}

		if r.EtaDays.Truthy() {
			if days, ok := r.EtaDays.Number(); ok {
				etaSum += days
				etaCount++
			}
		}

		if r.HasRoute() {
			routes[r.RouteOrigin+"-"+r.RouteDest] = struct{}{}
		}
	}

	m.RevenueGrowth = Growth(thisRevenue, lastRevenue)
	if etaCount > 0 {
		m.AvgDelivery = round(etaSum / float64(etaCount))
	}
	m.SuccessRate = Percent(len(history), len(all))
	m.ActiveRoutes = len(routes)
	return m
}

package analytics

import (
	"time"

	"shipment-dashboard/internal/shipment"
)

// growthWindow is the span counted as "this week".
const growthWindow = 7 * 24 * time.Hour

// Stats are the dashboard counters.
type Stats struct {
	Total          int `json:"total"`
	Proses         int `json:"proses"`
	Kirim          int `json:"kirim"`
	Selesai        int `json:"selesai"`
	Growth         int `json:"growth"`
	CompletionRate int `json:"completionRate"`
}

// CalculateStats counts shipments by state and computes week-over-week
// growth and the completion rate.
//
// Growth compares shipments purchased in the last seven days against every
// other shipment, including those with no parseable date, rather than against
// the seven days before. Callers rely on the figure as-is.
func (e *Engine) CalculateStats(aktif, history []shipment.Record) Stats {
	stats := Stats{
		Total:   len(aktif) + len(history),
		Selesai: len(history),
	}

	for _, r := range aktif {
		if r.Status == shipment.StatusProcessing {
			stats.Proses++
		}
		if shipment.IsInTransit(r.Status) {
			stats.Kirim++
		}
	}

	weekAgo := e.Now().Add(-growthWindow)
	thisWeek := 0
	for _, records := range [][]shipment.Record{aktif, history} {
		for _, r := range records {
			if t, ok := e.purchaseTime(r); ok && !t.Before(weekAgo) {
				thisWeek++
			}
		}
	}
	lastWeek := stats.Total - thisWeek

	stats.Growth = Growth(float64(thisWeek), float64(lastWeek))
	stats.CompletionRate = Percent(stats.Selesai, stats.Total)
	return stats
}

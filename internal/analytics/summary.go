package analytics

import (
	"shipment-dashboard/internal/shipment"
)

// MonthSummary rolls up the shipments purchased in the current month.
type MonthSummary struct {
	Total          int     `json:"total"`
	Revenue        float64 `json:"revenue"`
	Completed      int     `json:"completed"`
	CompletionRate int     `json:"completionRate"`
}

// MonthlySummary counts all shipments and completed shipments purchased in
// the current calendar month. history is expected to be a subset of all.
func (e *Engine) MonthlySummary(all, history []shipment.Record) MonthSummary {
	now := e.Now()
	year, month := now.Year(), now.Month()

	var s MonthSummary
	for _, r := range all {
		if e.inMonth(r, year, month) {
			s.Total++
			s.Revenue += r.Amount()
		}
	}
	for _, r := range history {
		if e.inMonth(r, year, month) {
			s.Completed++
		}
	}
	s.CompletionRate = Percent(s.Completed, s.Total)
	return s
}

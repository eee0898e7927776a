package analytics

import (
	"time"

	"shipment-dashboard/internal/format"
	"shipment-dashboard/internal/shipment"
)

// MonthBucket counts shipments purchased in one calendar month. Month is
// 0-based (January is 0).
type MonthBucket struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RevenuePoint is the revenue booked in one calendar month.
type RevenuePoint struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

// monthWindow returns monthsBack empty buckets ending at the current month,
// oldest first.
func (e *Engine) monthWindow(monthsBack int) []MonthBucket {
	if monthsBack <= 0 {
		return []MonthBucket{}
	}
	now := e.Now()
	buckets := make([]MonthBucket, 0, monthsBack)
	for i := monthsBack - 1; i >= 0; i-- {
		d := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, e.loc)
		buckets = append(buckets, MonthBucket{
			Year:  d.Year(),
			Month: int(d.Month()) - 1,
			Label: format.ShortMonth(int(d.Month()) - 1),
		})
	}
	return buckets
}

// bucketIndex finds the bucket holding t, or -1 when t is outside the window.
func bucketIndex(buckets []MonthBucket, t time.Time) int {
	if len(buckets) == 0 {
		return -1
	}
	first := buckets[0].Year*12 + buckets[0].Month
	offset := t.Year()*12 + int(t.Month()) - 1 - first
	if offset < 0 || offset >= len(buckets) {
		return -1
	}
	return offset
}

// GroupByMonth counts shipments per purchase month over the monthsBack months
// ending with the current one. Shipments outside the window or without a
// parseable purchase date are left out.
func (e *Engine) GroupByMonth(records []shipment.Record, monthsBack int) []MonthBucket {
	buckets := e.monthWindow(monthsBack)
	for _, r := range records {
		t, ok := e.purchaseTime(r)
		if !ok {
			continue
		}
		if i := bucketIndex(buckets, t); i >= 0 {
			buckets[i].Count++
		}
	}
	return buckets
}

// RevenueByMonth sums shipment prices per purchase month over the same window
// GroupByMonth uses.
func (e *Engine) RevenueByMonth(records []shipment.Record, monthsBack int) []RevenuePoint {
	buckets := e.monthWindow(monthsBack)
	points := make([]RevenuePoint, len(buckets))
	for i, b := range buckets {
		points[i] = RevenuePoint{Year: b.Year, Month: b.Month, Label: b.Label}
	}
	for _, r := range records {
		t, ok := e.purchaseTime(r)
		if !ok {
			continue
		}
		if i := bucketIndex(buckets, t); i >= 0 {
			points[i].Revenue += r.Amount()
		}
	}
	return points
}

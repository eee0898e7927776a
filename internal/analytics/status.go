package analytics

import (
	"shipment-dashboard/internal/shipment"
)

// Status chart labels.
const (
	LabelProcessing = "Dalam Proses"
	LabelInTransit  = "Dalam Pengiriman"
	LabelCompleted  = "Selesai"
)

// StatusSlice is one segment of the status chart.
type StatusSlice struct {
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// StatusBreakdown splits shipments into processing, in transit and completed.
// Every active shipment that is not in the processing state counts as in
// transit, whatever its status text.
func StatusBreakdown(aktif, history []shipment.Record) []StatusSlice {
	processing := 0
	for _, r := range aktif {
		if r.Status == shipment.StatusProcessing {
			processing++
		}
	}

	total := len(aktif) + len(history)
	slices := []StatusSlice{
		{Label: LabelProcessing, Count: processing},
		{Label: LabelInTransit, Count: len(aktif) - processing},
		{Label: LabelCompleted, Count: len(history)},
	}
	for i := range slices {
		slices[i].Percent = Percent(slices[i].Count, total)
	}
	return slices
}

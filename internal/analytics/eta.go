package analytics

import (
	"shipment-dashboard/internal/format"
	"shipment-dashboard/internal/shipment"
)

// NoEta is shown when a shipment has no usable estimate.
const NoEta = "-"

// etaDays returns eta_days as a number when it is set to something numeric.
// Empty strings and the literal "null" count as unset.
func etaDays(v shipment.Value) (float64, bool) {
	if !v.Present() {
		return 0, false
	}
	if s := v.String(); s == "" || s == "null" {
		return 0, false
	}
	return v.Number()
}

// ResolveEtaDisplay renders the estimate of an active shipment. eta_days wins
// ("N hari"), then the free-form text, then the formatted ETA date.
func (e *Engine) ResolveEtaDisplay(display, full *shipment.Record) string {
	if display == nil {
		return NoEta
	}
	if d, ok := etaDays(shipment.EtaDays(display, full)); ok {
		return format.Days(d)
	}
	if text := shipment.EtaText(display, full); text.Truthy() {
		return text.String()
	}
	if t, ok := e.NormalizeDate(shipment.EtaDate(display, full)); ok {
		return format.Date(t)
	}
	return NoEta
}

// ResolveHistoryEtaDisplay renders the estimate of a completed shipment.
// When both the text and the date are known they are shown together as
// "text (date)"; otherwise eta_days wins, then the text alone. A bare date
// is not shown.
func (e *Engine) ResolveHistoryEtaDisplay(display, full *shipment.Record) string {
	if display == nil {
		return NoEta
	}
	text := shipment.EtaText(display, full)
	date, hasDate := e.NormalizeDate(shipment.EtaDate(display, full))
	if text.Truthy() && hasDate {
		return text.String() + " (" + format.Date(date) + ")"
	}
	if d, ok := etaDays(shipment.EtaDays(display, full)); ok {
		return format.Days(d)
	}
	if text.Truthy() {
		return text.String()
	}
	return NoEta
}

package shipment

import "fmt"

// The resolvers below read a field from a pair of records: the full record as
// fetched and the display record, which may be a reduced projection produced
// by filtering or search. The full record is always consulted first; full may
// be nil when the display record could not be matched.

// firstPresent returns the first Value that is not null.
func firstPresent(values ...Value) Value {
	for _, v := range values {
		if v.Present() {
			return v
		}
	}
	return Value{}
}

func field(full *Record, get func(*Record) Value) Value {
	if full == nil {
		return Value{}
	}
	return get(full)
}

// EtaDays resolves eta_days.
func EtaDays(display, full *Record) Value {
	return firstPresent(
		field(full, func(r *Record) Value { return r.EtaDays }),
		display.EtaDays,
	)
}

// EtaText resolves the free-form ETA: eta_text, then the legacy eta and
// estimasi_tiba fields.
func EtaText(display, full *Record) Value {
	return firstPresent(
		field(full, func(r *Record) Value { return r.EtaText }),
		display.EtaText,
		field(full, func(r *Record) Value { return r.Eta }),
		display.Eta,
		field(full, func(r *Record) Value { return r.EstimasiTiba }),
		display.EstimasiTiba,
	)
}

// EtaDate resolves the ETA date: eta_delivery_date, then eta_date.
func EtaDate(display, full *Record) Value {
	return firstPresent(
		field(full, func(r *Record) Value { return r.EtaDeliveryDate }),
		display.EtaDeliveryDate,
		field(full, func(r *Record) Value { return r.EtaDate }),
		display.EtaDate,
	)
}

// Quantity returns the number of units shipped. With line items on the full
// record it is total_kuantitas, or the sum of item quantities when the total
// is missing; otherwise it is the display record's qty.
func Quantity(display, full *Record) int {
	if full != nil && len(full.Items) > 0 {
		if total := full.TotalQuantity.Int(); total != 0 {
			return total
		}
		sum := 0
		for _, item := range full.Items {
			sum += item.Quantity.Int()
		}
		return sum
	}
	return display.Qty.Int()
}

// ItemLines describes the goods as one "name (qty)" line per item, falling
// back to the display record's item name.
func ItemLines(display, full *Record) []string {
	if full != nil && len(full.Items) > 0 {
		lines := make([]string, 0, len(full.Items))
		for _, item := range full.Items {
			lines = append(lines, fmt.Sprintf("%s (%s)", item.Name, item.Quantity.String()))
		}
		return lines
	}
	return []string{orDash(display.ItemName)}
}

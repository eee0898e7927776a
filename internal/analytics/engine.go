// Package analytics derives dashboard summaries from fetched shipments:
// month buckets, stat counters, growth and completion rates, revenue, route
// rankings and ETA display values.
//
// Every function is pure. The only input besides the records is the current
// time, which an Engine reads from an injectable clock. Malformed numbers and
// dates are treated as zero or absent; nothing here returns an error.
package analytics

import (
	"math"
	"time"

	"github.com/spf13/cast"

	"shipment-dashboard/internal/shipment"
)

// DefaultMonthsBack is the width of the shipment and revenue charts.
const DefaultMonthsBack = 6

// TopRoutesLimit is the number of routes kept by TopRoutes.
const TopRoutesLimit = 5

// Engine computes summaries relative to a clock and a time zone.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the zone used to decide calendar months and to read
// timestamps that carry no offset.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// NewEngine returns an Engine on the system clock in the local zone.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the current time in the engine's zone.
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

// Location returns the engine's zone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// NormalizeDate converts a raw date in the engine's zone. See NormalizeDateIn.
func (e *Engine) NormalizeDate(raw any) (time.Time, bool) {
	return NormalizeDateIn(raw, e.loc)
}

// NormalizeDate converts a raw date in the local zone. See NormalizeDateIn.
func NormalizeDate(raw any) (time.Time, bool) {
	return NormalizeDateIn(raw, time.Local)
}

// NormalizeDateIn turns any supported date representation into a point in
// time: an epoch-seconds wrapper ({"seconds": n}), an ISO-8601 or HTTP date string, a
// time.Time, or a shipment.Value holding one of those. Strings without an
// offset are read in loc. It reports false for nil and for anything that
// cannot be parsed.
func NormalizeDateIn(raw any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch x := raw.(type) {
	case nil:
		return time.Time{}, false
	case shipment.Value:
		return NormalizeDateIn(x.Raw(), loc)
	case *shipment.Value:
		if x == nil {
			return time.Time{}, false
		}
		return NormalizeDateIn(x.Raw(), loc)
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x.In(loc), true
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return x.In(loc), true
	case map[string]any:
		seconds, ok := x["seconds"]
		if !ok {
			return time.Time{}, false
		}
		s, err := cast.ToFloat64E(seconds)
		if err != nil || math.IsNaN(s) || math.Abs(s) > maxEpochSeconds {
			return time.Time{}, false
		}
		return time.Unix(int64(s), 0).In(loc), true
	case string:
		if x == "" {
			return time.Time{}, false
		}
		if t, ok := parseZoneName(x, loc); ok {
			return t.In(loc), true
		}
		t, err := cast.ToTimeInDefaultLocationE(x, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t.In(loc), true
	default:
		return time.Time{}, false
	}
}

// maxEpochSeconds is the widest instant a JavaScript Date can hold,
// 8.64e15 ms either side of the epoch.
const maxEpochSeconds = 8.64e12

// zoneNameLayouts carry a zone abbreviation instead of a numeric offset.
var zoneNameLayouts = []string{
	time.RFC1123,
	time.RFC850,
	time.RFC822,
	time.UnixDate,
}

// parseZoneName reads HTTP-style dates such as "Wed, 31 Jan 2024 20:00:00 GMT".
// GMT and UTC are offset 0; an abbreviation loc knows uses loc's offset.
func parseZoneName(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range zoneNameLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// purchaseTime resolves and parses a record's purchase date.
func (e *Engine) purchaseTime(r shipment.Record) (time.Time, bool) {
	return e.NormalizeDate(r.PurchaseDate())
}

// inMonth reports whether a record was purchased in the given calendar month.
func (e *Engine) inMonth(r shipment.Record, year int, month time.Month) bool {
	t, ok := e.purchaseTime(r)
	return ok && t.Year() == year && t.Month() == month
}

// Percent returns round(part/whole × 100), or 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return round(float64(part) / float64(whole) * 100)
}

// Growth returns the percentage change from previous to current, rounded.
// Without a positive previous value it is 100 when current is positive and 0
// otherwise.
func Growth(current, previous float64) int {
	if previous <= 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round((current - previous) / previous * 100)
}

// round rounds half-way values up, so -12.5 becomes -12.
func round(f float64) int {
	return int(math.Floor(f + 0.5))
}

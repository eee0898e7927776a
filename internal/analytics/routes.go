package analytics

import (
	"sort"

	"shipment-dashboard/internal/shipment"
)

// RouteCount is the number of shipments on one route.
type RouteCount struct {
	Route string `json:"route"`
	Count int    `json:"count"`
}

// TopRoutes ranks routes by shipment count, highest first, and keeps the
// first TopRoutesLimit. Equal counts keep the order in which the routes were
// first seen. Missing endpoints are shown as "-", so incomplete routes are
// ranked too.
func TopRoutes(records []shipment.Record) []RouteCount {
	index := make(map[string]int)
	routes := make([]RouteCount, 0)
	for _, r := range records {
		label := r.RouteLabel()
		i, ok := index[label]
		if !ok {
			i = len(routes)
			index[label] = i
			routes = append(routes, RouteCount{Route: label})
		}
		routes[i].Count++
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Count > routes[j].Count
	})

	if len(routes) > TopRoutesLimit {
		routes = routes[:TopRoutesLimit]
	}
	return routes
}

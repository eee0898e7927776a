package shipment

import "encoding/json"

// Record is a single shipment as served by GET /api/shipments.
type Record struct {
	DocID       string `json:"doc_id"`
	NoResi      string `json:"no_resi"`
	Buyer       string `json:"buyer,omitempty"`
	ItemName    string `json:"item_name,omitempty"`
	RouteOrigin string `json:"route_origin,omitempty"`
	RouteDest   string `json:"route_dest,omitempty"`
	Status      string `json:"status"`

	Price Value `json:"price"`
	Qty   Value `json:"qty"`

	PurchasedAt Value `json:"tanggal_pembelian"`
	CreatedAt   Value `json:"created_at"`

	EtaDays         Value `json:"eta_days"`
	EtaText         Value `json:"eta_text"`
	Eta             Value `json:"eta"`
	EstimasiTiba    Value `json:"estimasi_tiba"`
	EtaDeliveryDate Value `json:"eta_delivery_date"`
	EtaDate         Value `json:"eta_date"`

	Items         []LineItem `json:"barang_dipesan,omitempty"`
	TotalQuantity Value      `json:"total_kuantitas"`
}

// LineItem is one ordered good within a shipment.
type LineItem struct {
	Name     string `json:"nama_barang"`
	Quantity Value  `json:"kuantitas"`
}

// UnmarshalJSON decodes a record leniently. Display fields holding numbers
// or booleans are rendered as text, other non-string values become "", and a
// malformed barang_dipesan list keeps only the entries that decode.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		DocID       Value           `json:"doc_id"`
		NoResi      Value           `json:"no_resi"`
		Buyer       Value           `json:"buyer"`
		ItemName    Value           `json:"item_name"`
		RouteOrigin Value           `json:"route_origin"`
		RouteDest   Value           `json:"route_dest"`
		Status      Value           `json:"status"`
		Items       json.RawMessage `json:"barang_dipesan"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.DocID = aux.DocID.String()
	r.NoResi = aux.NoResi.String()
	r.Buyer = aux.Buyer.String()
	r.ItemName = aux.ItemName.String()
	r.RouteOrigin = aux.RouteOrigin.String()
	r.RouteDest = aux.RouteDest.String()
	r.Status = aux.Status.String()
	r.Items = decodeItems(aux.Items)
	return nil
}

func decodeItems(data json.RawMessage) []LineItem {
	var raw []json.RawMessage
	if len(data) == 0 || json.Unmarshal(data, &raw) != nil {
		return nil
	}

	items := make([]LineItem, 0, len(raw))
	for _, entry := range raw {
		var item LineItem
		if json.Unmarshal(entry, &item) == nil {
			items = append(items, item)
		}
	}
	return items
}

// UnmarshalJSON decodes a line item, rendering a non-string name as text.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name     Value `json:"nama_barang"`
		Quantity Value `json:"kuantitas"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	li.Name = aux.Name.String()
	li.Quantity = aux.Quantity
	return nil
}

// Amount is the shipment price; missing or malformed prices count as 0.
func (r Record) Amount() float64 {
	return r.Price.Float()
}

// PurchaseDate returns the raw purchase timestamp: tanggal_pembelian when it
// is set, created_at otherwise. The first non-empty field wins even when it
// cannot be parsed as a date.
func (r Record) PurchaseDate() Value {
	if r.PurchasedAt.Truthy() {
		return r.PurchasedAt
	}
	if r.CreatedAt.Truthy() {
		return r.CreatedAt
	}
	return Value{}
}

// HasRoute reports whether both route endpoints are set.
func (r Record) HasRoute() bool {
	return r.RouteOrigin != "" && r.RouteDest != ""
}

// RouteLabel renders "origin → dest", using "-" for a missing endpoint.
func (r Record) RouteLabel() string {
	return orDash(r.RouteOrigin) + " → " + orDash(r.RouteDest)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

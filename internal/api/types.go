package api

import (
	"encoding/json"
	"errors"

	"shipment-dashboard/internal/shipment"
)

// CreateShipmentRequest is the body of POST /shipments.
type CreateShipmentRequest struct {
	BuyerID  string `json:"id_pembeli" validate:"required"`
	ItemName string `json:"nama_barang" validate:"required"`
	Quantity int    `json:"kuantitas" validate:"gt=0"`
	Origin   string `json:"asal_pengirim" validate:"required"`
	Dest     string `json:"tujuan" validate:"required"`
}

// TrackingResult is what the backend returns for a resi lookup and for a
// newly created shipment. Numeric fields are kept loose because the backend
// passes stored values through unchanged.
type TrackingResult struct {
	NoResi          string         `json:"no_resi"`
	Status          string         `json:"status_pengiriman"`
	Origin          string         `json:"asal,omitempty"`
	Dest            string         `json:"tujuan,omitempty"`
	Currency        string         `json:"currency,omitempty"`
	ShippingPrice   shipment.Value `json:"harga_pengiriman"`
	BasePrice       shipment.Value `json:"harga_dasar"`
	PerKgFactor     shipment.Value `json:"per_kg_factor"`
	IncludedKg      shipment.Value `json:"included_kg"`
	DistributorID   shipment.Value `json:"distributor_id"`
	DistributorName string         `json:"distributor_name,omitempty"`
	EtaDays         shipment.Value `json:"eta_days"`
	EtaText         shipment.Value `json:"eta_text"`
	EtaDeliveryDate shipment.Value `json:"eta_delivery_date"`
	PurchasedAt     shipment.Value `json:"tanggal_pembelian"`
}

// ErrorResponse is the backend's error body.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// newAPIError builds an APIError from a response body, using fallback when
// the body carries no message.
func newAPIError(code int, body []byte, fallback string) *APIError {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		return &APIError{StatusCode: code, Message: resp.Message}
	}
	return &APIError{StatusCode: code, Message: fallback}
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// Result is the uniform outcome handed to the presentation layer.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps a successful payload.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Failure converts an error into a failed Result carrying its message.
func Failure(err error) Result {
	r := Result{Success: false}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

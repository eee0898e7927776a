package shipment

import (
	"fmt"
	"strconv"
	"strings"
)

// Delivery states, in lifecycle order.
const (
	StatusProcessing     = "Pesanan anda sedang kami proses"
	StatusPickup         = "Kurir berangkat mengambil paket"
	StatusCourierSending = "Kurir mengirim paket"
	StatusAtSorting      = "Paket telah sampai di Gudang Sortir"
	StatusLeftSorting    = "Paket Keluar dari Gudang Sortir"
	StatusOutForDelivery = "Kurir menuju ke lokasi anda"
	StatusArrived        = "Paket telah sampai di lokasi anda"
	StatusCompleted      = "Pesanan Selesai"
)

// Statuses is the fixed delivery-state vocabulary shared with the backend.
var Statuses = []string{
	StatusProcessing,
	StatusPickup,
	StatusCourierSending,
	StatusAtSorting,
	StatusLeftSorting,
	StatusOutForDelivery,
	StatusArrived,
	StatusCompleted,
}

// CSS-style classes used to badge a status.
const (
	ClassProcessing = "status-proses"
	ClassInTransit  = "status-kirim"
	ClassCompleted  = "status-selesai"
)

// inTransitMarkers are substrings of every status between processing and
// completion: courier, sorting warehouse, and "your location".
var inTransitMarkers = []string{"Kurir", "Gudang", "lokasi"}

// IsValidStatus reports whether status belongs to the vocabulary.
func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsInTransit matches the live status string against the in-transit markers.
// The match is case-sensitive.
func IsInTransit(status string) bool {
	for _, marker := range inTransitMarkers {
		if strings.Contains(status, marker) {
			return true
		}
	}
	return false
}

// StatusClass returns the badge class for a status. An empty status is shown
// as processing.
func StatusClass(status string) string {
	switch status {
	case "", StatusProcessing:
		return ClassProcessing
	case StatusCompleted:
		return ClassCompleted
	default:
		return ClassInTransit
	}
}

// ParseStatus accepts either an exact status or its 1-based position in the
// vocabulary.
func ParseStatus(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if IsValidStatus(arg) {
		return arg, nil
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n >= 1 && n <= len(Statuses) {
			return Statuses[n-1], nil
		}
		return "", fmt.Errorf("status index %d out of range (1-%d)", n, len(Statuses))
	}
	return "", fmt.Errorf("unknown status %q", arg)
}

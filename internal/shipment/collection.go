package shipment

import "strings"

// Collection is the payload of GET /api/shipments: active shipments and the
// completed history. A record never appears in both.
type Collection struct {
	Aktif   []Record `json:"aktif"`
	History []Record `json:"history"`
}

// Normalize replaces absent sequences with empty ones.
func (c *Collection) Normalize() {
	if c.Aktif == nil {
		c.Aktif = []Record{}
	}
	if c.History == nil {
		c.History = []Record{}
	}
}

// All returns the union of active and history records, active first.
func (c Collection) All() []Record {
	all := make([]Record, 0, len(c.Aktif)+len(c.History))
	all = append(all, c.Aktif...)
	return append(all, c.History...)
}

// Clone returns a copy whose slices can be modified independently.
func (c Collection) Clone() Collection {
	return Collection{
		Aktif:   append([]Record{}, c.Aktif...),
		History: append([]Record{}, c.History...),
	}
}

// FindActive returns the active record with the given doc ID.
func (c Collection) FindActive(docID string) *Record {
	return find(c.Aktif, docID)
}

// FindHistory returns the history record with the given doc ID.
func (c Collection) FindHistory(docID string) *Record {
	return find(c.History, docID)
}

func find(records []Record, docID string) *Record {
	for i := range records {
		if records[i].DocID == docID {
			return &records[i]
		}
	}
	return nil
}

// SetStatus updates the status of an active record. Setting the completed
// status moves the record to history. It reports whether the record was found.
func (c *Collection) SetStatus(docID, status string) bool {
	if status == StatusCompleted {
		return c.MarkComplete(docID)
	}
	r := c.FindActive(docID)
	if r == nil {
		return false
	}
	r.Status = status
	return true
}

// MarkComplete moves an active record to the front of history with the
// completed status, mirroring the backend's archive on completion.
func (c *Collection) MarkComplete(docID string) bool {
	for i := range c.Aktif {
		if c.Aktif[i].DocID != docID {
			continue
		}
		r := c.Aktif[i]
		r.Status = StatusCompleted
		c.Aktif = append(c.Aktif[:i:i], c.Aktif[i+1:]...)
		c.History = append([]Record{r}, c.History...)
		return true
	}
	return false
}

// Filter narrows records by a case-insensitive search over the resi, buyer,
// item name and route endpoints, and by exact status when status is set.
// Blank search and status match everything.
func Filter(records []Record, search, status string) []Record {
	search = strings.ToLower(strings.TrimSpace(search))
	status = strings.TrimSpace(status)

	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func matchesSearch(r Record, needle string) bool {
	for _, haystack := range []string{r.NoResi, r.Buyer, r.ItemName, r.RouteOrigin, r.RouteDest} {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

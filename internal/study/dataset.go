package study

import "time"

// DatasetRef points a dataset role at a file on disk.
type DatasetRef struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	Path       string    `json:"path"`
	SheetName  string    `json:"sheet_name,omitempty"`
	SheetIndex int       `json:"sheet_index,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

package realtime

import "time"

// Change types mirrored in published events
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Tables that emit change events
const (
	TablePostulations = "job_applications"
	TableCompanies    = "companies"
)

// Event describes a single row change on a watched table
type Event struct {
	Table     string    `json:"table"`
	Type      string    `json:"type"`
	RecordID  int64     `json:"recordId"`
	UserID    int64     `json:"userId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

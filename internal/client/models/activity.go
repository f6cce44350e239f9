package models

import "encoding/json"

// ActivityLogEntry is a read-only audit record.
type ActivityLogEntry struct {
	Timestamp Timestamp       `json:"timestamp"`
	UserID    ID              `json:"user_id"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details"`
}

// DetailsText renders Details for display: strings are unquoted, anything
// else is shown as compact JSON.
func (e ActivityLogEntry) DetailsText() string {
	if len(e.Details) == 0 || string(e.Details) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Details, &s); err == nil {
		return s
	}
	return string(e.Details)
}

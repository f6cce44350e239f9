package models

// WhitelistEntry is a provisioned UID with timed access.
type WhitelistEntry struct {
	ID        ID         `json:"id"`
	UID       string     `json:"uid"`
	Region    string     `json:"region"`
	SellerID  ID         `json:"seller_id"`
	ExpiresAt *Timestamp `json:"expires_at"`
	IsActive  bool       `json:"is_active"`
	IsPaused  bool       `json:"is_paused,omitempty"`
}

// Status is the label used by tables and filters.
func (w WhitelistEntry) Status() string {
	switch {
	case w.IsPaused:
		return "paused"
	case w.IsActive:
		return "active"
	default:
		return "expired"
	}
}

type CreateWhitelistRequest struct {
	UID          string `json:"uid"`
	Region       string `json:"region"`
	DurationDays int    `json:"duration_days"`
	ResellerID   *ID    `json:"reseller_id,omitempty"`
}

// WhitelistFilter narrows a whitelist listing. Empty or "all" fields match
// everything; Status is one of active, expired or all.
type WhitelistFilter struct {
	Region string
	Status string
}

func (f WhitelistFilter) Match(w WhitelistEntry) bool {
	if f.Region != "" && f.Region != "all" && w.Region != f.Region {
		return false
	}
	switch f.Status {
	case "active":
		return w.IsActive
	case "expired":
		return !w.IsActive
	}
	return true
}

// Apply returns the matching entries; the input is not modified.
func (f WhitelistFilter) Apply(items []WhitelistEntry) []WhitelistEntry {
	out := make([]WhitelistEntry, 0, len(items))
	for _, w := range items {
		if f.Match(w) {
			out = append(out, w)
		}
	}
	return out
}

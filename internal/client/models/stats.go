package models

import "sort"

// Stats covers both the admin and the reseller flavour of /api/stats.
type Stats struct {
	TotalResellers *int     `json:"total_resellers,omitempty"`
	TotalUIDs      *int     `json:"total_uids,omitempty"`
	TotalBalance   *float64 `json:"total_balance,omitempty"`

	TotalWhitelists  *int     `json:"total_whitelists,omitempty"`
	ActiveWhitelists *int     `json:"active_whitelists,omitempty"`
	Balance          *float64 `json:"balance,omitempty"`
}

// Durations offered by the backend price list, in days.
var Durations = []int{7, 30, 60, 365}

// IsDuration reports whether days is one of the priced durations.
func IsDuration(days int) bool {
	for _, d := range Durations {
		if d == days {
			return true
		}
	}
	return false
}

// Pricing maps a duration in days to its price. JSON object keys are the
// decimal day counts.
type Pricing map[int]float64

// Days returns the priced durations in ascending order.
func (p Pricing) Days() []int {
	days := make([]int, 0, len(p))
	for d := range p {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

package models

// Reseller is a tenant account with a credit balance.
type Reseller struct {
	ID        ID         `json:"id"`
	Username  string     `json:"username"`
	Plan      string     `json:"plan"`
	Balance   float64    `json:"balance"`
	IsActive  bool       `json:"is_active"`
	CreatedAt *Timestamp `json:"created_at"`
}

type CreateResellerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Plan     string `json:"plan"`
}

type AmountRequest struct {
	Amount float64 `json:"amount"`
}

// ActiveResellers keeps the resellers that may receive new whitelists.
func ActiveResellers(items []Reseller) []Reseller {
	out := make([]Reseller, 0, len(items))
	for _, r := range items {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out
}

package domain

// PlanCode identifies a subscription plan in the catalog.
type PlanCode string

const (
	PlanLimited   PlanCode = "limited"
	PlanUnlimited PlanCode = "unlimited"
)

// ParsePlanCode accepts the two catalog codes.
func ParsePlanCode(s string) (PlanCode, bool) {
	switch PlanCode(s) {
	case PlanLimited, PlanUnlimited:
		return PlanCode(s), true
	}
	return "", false
}

// SubscriptionPlan is a static catalog row.
type SubscriptionPlan struct {
	PlanCode        PlanCode `json:"planCode"`
	Name            string   `json:"name"`
	PriceCents      int64    `json:"priceCents"`
	Currency        string   `json:"currency"`
	UnlocksIncluded *int     `json:"unlocksIncluded,omitempty"` // nil means no cap
	Popular         bool     `json:"popular"`
}

// DefaultPlans is the catalog seeded by the migrations.
func DefaultPlans() []SubscriptionPlan {
	ten := 10
	return []SubscriptionPlan{
		{
			PlanCode:        PlanLimited,
			Name:            "Limited",
			PriceCents:      4900, // €49/mo
			Currency:        "eur",
			UnlocksIncluded: &ten,
		},
		{
			PlanCode:   PlanUnlimited,
			Name:       "Unlimited",
			PriceCents: 14900, // €149/mo
			Currency:   "eur",
			Popular:    true,
		},
	}
}

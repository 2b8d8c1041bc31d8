package ratelimit

// Tier is a subscription class determining rate-limit caps.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierBusiness   Tier = "business"
	TierEnterprise Tier = "enterprise"
)

// Limits holds the request caps for the three enforcement windows.
type Limits struct {
	PerMinute int `json:"per_minute"`
	PerHour   int `json:"per_hour"`
	PerDay    int `json:"per_day"`
}

var tierLimits = map[Tier]Limits{
	TierFree:       {PerMinute: 10, PerHour: 100, PerDay: 1000},
	TierPro:        {PerMinute: 60, PerHour: 1000, PerDay: 10000},
	TierBusiness:   {PerMinute: 120, PerHour: 5000, PerDay: 50000},
	TierEnterprise: {PerMinute: 300, PerHour: 20000, PerDay: 200000},
}

// LimitsForTier resolves a tier's caps. Unknown tiers fall back to free.
func LimitsForTier(tier Tier) Limits {
	if limits, ok := tierLimits[tier]; ok {
		return limits
	}
	return tierLimits[TierFree]
}

package models

// UsageResponse reports an identifier's rate-limit consumption across all
// three windows.
type UsageResponse struct {
	Identifier   string           `json:"identifier"`
	Tier         string           `json:"tier"`
	Limits       map[string]int   `json:"limits"`
	CurrentUsage map[string]int64 `json:"current_usage"`
	Remaining    map[string]int64 `json:"remaining"`
	ResetTimes   map[string]int64 `json:"reset_times"`
}

// ResetResponse acknowledges an administrative counter reset.
type ResetResponse struct {
	Identifier string `json:"identifier"`
	Reset      bool   `json:"reset"`
}

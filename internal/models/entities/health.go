package entities

import "time"

// ComponentStatus is the result of pinging one backing service
type ComponentStatus struct {
	Status    string `json:"status"`
	Backend   string `json:"backend,omitempty"`
	Details   string `json:"details,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

type HealthCheckResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
	UpSince    time.Time                  `json:"up_since"`
	Uptime     string                     `json:"uptime"`
}

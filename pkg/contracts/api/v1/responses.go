// Package api contains API contract definitions for the eegviz viewer.
// Version v1 represents the current stable API version.
package api

import (
	"time"
)

// Health API Responses

// HealthResponse represents the viewer health check payload
type HealthResponse struct {
	Status    string      `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Version   string      `json:"version"`
	Uptime    string      `json:"uptime"`
	Runtime   RuntimeInfo `json:"runtime"`
}

// RuntimeInfo describes the Go runtime serving the viewer
type RuntimeInfo struct {
	GoVersion  string `json:"go_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Goroutines int    `json:"goroutines"`
}

// Summary API Responses

// TimeRange is the closed interval covered by a recording, in seconds
type TimeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ChannelSummary carries per-channel statistics for API consumers.
// Min, Max and Mean are computed over present samples only and are
// zero when the channel has no present samples.
type ChannelSummary struct {
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Samples int     `json:"samples"`
	Missing int     `json:"missing"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
}

// SummaryResponse describes the recording behind the served chart
type SummaryResponse struct {
	Source    string           `json:"source"`
	Rows      int              `json:"rows"`
	TimeRange *TimeRange       `json:"time_range,omitempty"`
	Channels  []ChannelSummary `json:"channels"`
}

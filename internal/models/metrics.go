package models

import "time"

// MetricsSnapshot summarises bot activity for the ops API.
type MetricsSnapshot struct {
	UpdatesHandled          uint64    `json:"updates_handled"`
	UpdatesFailed           uint64    `json:"updates_failed"`
	RemoteCalls             uint64    `json:"remote_calls"`
	RemoteFailures          uint64    `json:"remote_failures"`
	AverageRemoteDurationMs float64   `json:"average_remote_duration_ms"`
	CacheHits               uint64    `json:"cache_hits"`
	CacheMisses             uint64    `json:"cache_misses"`
	CacheHitRatio           float64   `json:"cache_hit_ratio"`
	Goroutines              int       `json:"goroutines"`
	GeneratedAt             time.Time `json:"generated_at"`
}

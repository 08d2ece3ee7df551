// Package viewer serves an exported chart on a local HTTP endpoint.
//
// The server binds to loopback by default, serves the interactive HTML
// artifact at /, a small JSON API under /api (health and recording
// summary) and Prometheus metrics at /metrics. When configured it opens
// the system browser once the health endpoint answers.
package viewer

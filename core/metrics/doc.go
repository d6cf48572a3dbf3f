// Package metrics defines the Prometheus counters exposed on /metrics.
package metrics

// Package admin exposes the service's HTTP surface: health probes,
// Prometheus metrics, tool listing and execution, and authenticated
// cache administration (stats, scoped clear, expiry sweep).
package admin

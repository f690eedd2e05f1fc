// Package health aggregates liveness and readiness checks for the
// legal-advisor service: cache directory writability and upstream
// source reachability.
package health

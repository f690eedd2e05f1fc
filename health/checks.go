package health

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// DirWritable checks that a directory exists and accepts writes. Used
// for the cache directory; a read-only cache degrades the service but
// does not make it unhealthy, so failures report degraded.
func DirWritable(dir string) Checker {
	return CheckerFunc(func(ctx context.Context) Result {
		if dir == "" {
			return Healthy("cache disabled")
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return Degraded(fmt.Sprintf("cache directory unavailable: %v", err))
		}
		probe, err := os.CreateTemp(dir, "healthz-*")
		if err != nil {
			return Degraded(fmt.Sprintf("cache directory not writable: %v", err))
		}
		name := probe.Name()
		probe.Close()
		_ = os.Remove(name)
		return Healthy("cache directory writable").WithDetails(map[string]any{
			"dir": filepath.Clean(dir),
		})
	})
}

// Reachable checks that an upstream base URL answers an HTTP request.
// An unreachable source degrades the service: other sources keep
// working and cached results remain servable.
func Reachable(client *http.Client, url string) Checker {
	if client == nil {
		client = http.DefaultClient
	}
	return CheckerFunc(func(ctx context.Context) Result {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return Unhealthy("bad upstream url", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return Degraded(fmt.Sprintf("upstream unreachable: %v", err))
		}
		resp.Body.Close()
		if resp.StatusCode >= 500 {
			return Degraded(fmt.Sprintf("upstream returned %d", resp.StatusCode))
		}
		return Healthy("upstream reachable").WithDetails(map[string]any{
			"status": resp.StatusCode,
		})
	})
}

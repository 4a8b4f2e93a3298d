package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zero-day-ai/xplor/store"
)

// StoreCheck pings s when it implements store.Pinger, then lists its
// collections. A failed ping is unhealthy; a failed listing after a
// successful ping is degraded.
func StoreCheck(ctx context.Context, name string, s store.Store) Status {
	if s == nil {
		return Unhealthy(fmt.Sprintf("store '%s' is not configured", name), nil)
	}

	details := map[string]any{"store": name}

	if p, ok := s.(store.Pinger); ok {
		start := time.Now()
		if err := p.Ping(ctx); err != nil {
			details["error"] = err.Error()
			return Unhealthy(fmt.Sprintf("store '%s' is unreachable", name), details)
		}
		details["latency_ms"] = time.Since(start).Milliseconds()
	}

	collections, err := s.List(ctx)
	if err != nil {
		details["error"] = err.Error()
		return Degraded(fmt.Sprintf("store '%s' cannot list collections", name), details)
	}
	details["collections"] = len(collections)

	return Status{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("store '%s' holds %d collection(s)", name, len(collections)),
		Details: details,
	}
}

// DirCheck verifies that path exists and is a directory.
func DirCheck(path string) Status {
	if path == "" {
		return Unhealthy("path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Unhealthy(
				fmt.Sprintf("directory '%s' does not exist", path),
				map[string]any{"path": path},
			)
		}
		return Unhealthy(
			fmt.Sprintf("failed to stat path '%s'", path),
			map[string]any{
				"path":  path,
				"error": err.Error(),
			},
		)
	}
	if !info.IsDir() {
		return Unhealthy(
			fmt.Sprintf("'%s' is not a directory", path),
			map[string]any{"path": path},
		)
	}

	return Healthy(fmt.Sprintf("directory '%s' exists", path))
}

// Combine aggregates checks into a single status.
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return Healthy("no checks provided")
	}

	var unhealthy, degraded []string
	var healthy int
	for _, c := range checks {
		msg := c.Message
		if msg == "" {
			msg = "unnamed check"
		}
		switch c.Status {
		case StatusUnhealthy:
			unhealthy = append(unhealthy, msg)
		case StatusDegraded:
			degraded = append(degraded, msg)
		case StatusHealthy:
			healthy++
		}
	}

	if len(unhealthy) > 0 {
		return Unhealthy(
			fmt.Sprintf("%d check(s) failed", len(unhealthy)),
			map[string]any{
				"total":         len(checks),
				"unhealthy":     len(unhealthy),
				"degraded":      len(degraded),
				"healthy":       healthy,
				"failed_checks": unhealthy,
			},
		)
	}

	if len(degraded) > 0 {
		return Degraded(
			fmt.Sprintf("%d check(s) degraded", len(degraded)),
			map[string]any{
				"total":           len(checks),
				"degraded":        len(degraded),
				"healthy":         healthy,
				"degraded_checks": degraded,
			},
		)
	}

	return Healthy(fmt.Sprintf("all %d check(s) passed", len(checks)))
}

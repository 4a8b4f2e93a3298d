// Package health checks the dependencies of an explorer: its graph store
// and the directories it reads documents from.
//
// Checks return a Status; Combine folds several into one, unhealthy winning
// over degraded and degraded over healthy:
//
//	status := health.Combine(
//	    health.StoreCheck(ctx, "graphs", s),
//	    health.DirCheck("/var/lib/xplor/subgraphs"),
//	)
//	if status.IsUnhealthy() {
//	    log.Printf("health check failed: %s", status.Message)
//	}
package health

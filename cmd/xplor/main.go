// Command xplor builds knowledge graphs from search results and explores
// them from the command line.
//
//	xplor --config ./xplor.yaml search demo graph theory
//	xplor --config ./xplor.yaml graph demo --node 0 --cut 20
//	xplor --config ./xplor.yaml labels demo --cluster 0,3,7
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

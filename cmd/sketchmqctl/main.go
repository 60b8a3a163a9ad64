// sketchmqctl runs operational sidecars for a sketchmq deployment.
// Currently that means the presence exporter: a poller over the psql
// store that publishes room/session usage metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gitkarasune/Sketch-MQ/backend"
	"github.com/gitkarasune/Sketch-MQ/backend/psql"
	"github.com/gitkarasune/Sketch-MQ/ctl/presence"
)

var (
	addr     = flag.String("http", ":8081", "address to serve metrics on")
	dsn      = flag.String("psql", "", "DSN of the store to scan")
	interval = flag.Duration("interval", 60*time.Second, "sleep interval between scans")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *dsn == "" {
		return fmt.Errorf("-psql is required")
	}

	inner := backend.NewMemBackend("ctl", backend.PolicyConfig{})
	pb, err := psql.NewBackend(*dsn, inner)
	if err != nil {
		return fmt.Errorf("backend error: %w", err)
	}
	defer pb.Close()

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(*addr, nil); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}()

	ctx := backend.LoggingContext(context.Background(), "[presence-exporter] ")
	return presence.ScanLoop(ctx, pb, *interval)
}

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gitkarasune/Sketch-MQ/backend"
	"github.com/gitkarasune/Sketch-MQ/backend/psql"
	"github.com/gitkarasune/Sketch-MQ/proto"
)

var configPath = flag.String("config", "", "path to a yaml config file")

// stamped at build time
var version string

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	backend.RegisterFlags()
	flag.Parse()

	if *configPath != "" {
		if err := backend.Config.LoadFromFile(*configPath); err != nil {
			return err
		}
	}

	if version == "" {
		version = "dev"
	}

	var b proto.Backend
	b = backend.NewMemBackend(version, backend.Config.Policy)
	if dsn := backend.Config.DB.DSN; dsn != "" {
		pb, err := psql.NewBackend(dsn, b)
		if err != nil {
			return fmt.Errorf("backend error: %w", err)
		}
		b = pb
	}
	defer b.Close()

	server := backend.NewServer(b, &backend.Config)

	fmt.Printf("sketchmq-backend %s listening on %s\n", version, backend.Config.HTTP.Listen)
	return http.ListenAndServe(backend.Config.HTTP.Listen, server)
}

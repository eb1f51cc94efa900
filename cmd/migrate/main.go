// Command migrate applies the embedded schema migrations to Postgres.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/okutransport/ride-coordinator/config"
	repo "github.com/okutransport/ride-coordinator/internal/adapter/postgres"
	"github.com/okutransport/ride-coordinator/pkg/postgres"
)

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	timeout    = flag.Duration("timeout", 30*time.Second, "Overall migration timeout")
)

func main() {
	flag.Parse()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	applied, err := repo.Migrate(ctx, client.Pool)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if len(applied) == 0 {
		log.Println("schema is up to date")
		return
	}
	for _, name := range applied {
		log.Printf("applied %s", name)
	}
}

package config

import (
	"flag"
	"fmt"

	"github.com/okutransport/ride-coordinator/internal/domain/types"
)

const HelpMessage = `
Ride coordinator API server.

Usage:
  coordinator [-config-path <file>] [-help]

Options:
  -config-path   YAML config file (default config.yaml). Values may be
                 overridden by environment variables, e.g. STORAGE_MODE=memory.
  -help          Show this message.

Storage modes:
  postgres       rides and drivers in Postgres, locations in Redis,
                 events on RabbitMQ and Kafka
  memory         everything in process, brokers disabled
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

// PrintConfig prints the effective configuration without secrets.
func PrintConfig(cfg *Config) {
	fmt.Printf("service:   %s (log level %s)\n", cfg.ServiceName, cfg.LogLevel)
	fmt.Printf("storage:   %s\n", cfg.Storage)
	fmt.Printf("http:      %s\n", cfg.Server.Addr())
	if cfg.Storage != types.StoragePostgres {
		return
	}
	fmt.Printf("postgres:  %s:%s/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	addr, _, db, _ := cfg.Redis.Options()
	fmt.Printf("redis:     %s db=%d\n", addr, db)
	fmt.Printf("rabbitmq:  %s:%s\n", cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	if cfg.Kafka.Enabled {
		fmt.Printf("kafka:     %v topic=%s\n", cfg.Kafka.Brokers, cfg.Kafka.LocationTopic)
	}
}

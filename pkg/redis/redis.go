package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config is satisfied by config.RedisConfig.
type Config interface {
	Options() (addr, password string, db int, dialTimeout time.Duration)
}

// New connects and pings the server.
func New(ctx context.Context, cfg Config) (*goredis.Client, error) {
	addr, password, db, dialTimeout := cfg.Options()
	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: dialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Command tokengen mints access tokens for local development.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/okutransport/ride-coordinator/config"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/internal/service/auth"
)

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	subject    = flag.String("sub", "", "Token subject: passenger id, driver e-mail or admin id")
	role       = flag.String("role", "PASSENGER", "PASSENGER, DRIVER or ADMIN")
	ttl        = flag.Duration("ttl", time.Hour, "Token lifetime")
)

func main() {
	flag.Parse()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	r := types.UserRole(strings.ToUpper(*role))
	sub := *subject
	if r == types.DriverRole {
		sub = strings.ToLower(strings.TrimSpace(sub))
	}

	token, err := auth.NewTokenService(cfg.Auth.JWTSecret).Issue(sub, r, *ttl)
	if err != nil {
		log.Fatalf("issue token for %q as %s: %v", sub, r, err)
	}
	fmt.Println(token)
}

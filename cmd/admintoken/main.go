// Command admintoken mints a bearer token for the admin reconciliation API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"payment-webhook/config"
	"payment-webhook/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	operator := flag.String("operator", "", "operator name embedded in the token")
	flag.Parse()

	if *operator == "" {
		fmt.Fprintln(os.Stderr, "usage: admintoken -operator <name> [-config path]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	token, expiresAt, err := tokenSvc.Generate(*operator)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "token for %q expires %s\n", *operator, expiresAt.UTC().Format(time.RFC3339))
	fmt.Println(token)
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/application/startup"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/bannerstack-go/pkg/config"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "keygen":
			os.Exit(keygen(os.Args[2:]))
		case "token":
			os.Exit(token(os.Args[2:]))
		}
	}

	if err := startup.Initialize(); err != nil {
		log.Fatalf("Application startup failed: %v", err)
	}

	log.Println("Application has shut down gracefully.")
}

// keygen prints a random hex key suitable for JWT_SECRET.
func keygen(args []string) int {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	length := fs.Int("length", 64, "key length in hex characters")
	_ = fs.Parse(args)

	key, err := security.GenerateSecureKey(*length)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(key)
	return 0
}

// token signs an admin bearer token with the configured JWT_SECRET.
func token(args []string) int {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	subject := fs.String("subject", "admin", "token subject")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	_ = fs.Parse(args)

	if config.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		return 1
	}
	signed, err := security.GenerateAdminToken(*subject, config.JWTSecret, config.JWTIssuer, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(signed)
	return 0
}

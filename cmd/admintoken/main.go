// Command admintoken mints a signed admin JWT for the catalogue and price management routes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"gemtrader/configs"
	"gemtrader/internal/middleware"
)

func main() {
	subject := flag.String("subject", "admin", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	cfg := configs.Load()

	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "warning: JWT_SECRET not set, token is signed with the development secret")
	}

	token, err := middleware.NewAuth(cfg.Auth.JWTSecret).GenerateJWT(*subject, middleware.RoleAdmin, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

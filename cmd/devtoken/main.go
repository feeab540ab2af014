// Command devtoken mints an HS256 bearer token accepted by the server when
// auth.secret is configured. It is meant for local development only.
package main

import (
	"alcyxob/recipe-app/internal/config"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func main() {
	subject := flag.String("sub", "", "owner id placed in the sub claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	configPath := flag.String("config", ".", "directory holding config.yaml")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "devtoken: -sub is required")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}

	token, err := mint(cfg.Auth, *subject, *ttl, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func mint(auth config.AuthConfig, subject string, ttl time.Duration, now time.Time) (string, error) {
	if auth.Secret == "" {
		return "", fmt.Errorf("auth.secret is not set; RS256 deployments need tokens from the identity provider")
	}

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    auth.Issuer,
	}
	if auth.Audience != "" {
		claims.Audience = jwt.ClaimStrings{auth.Audience}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(auth.Secret))
}

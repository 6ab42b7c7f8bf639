package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/forgo/devcamper/api/internal/config"
	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/pkg/jwt"
)

func main() {
	// Defaults come from the same environment the server reads
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	secret := flag.String("secret", cfg.JWT.Secret, "HMAC secret (default: JWT_SECRET)")
	userID := flag.String("user", "", "Record id of an existing admin user, e.g. user:abc123")
	issuer := flag.String("issuer", cfg.JWT.Issuer, "JWT issuer")
	exp := flag.Duration("exp", 7*24*time.Hour, "Token lifetime")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	subject, err := model.ParseRecordID(model.TableUser, *userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -user must be a user record id: %v\n", err)
		os.Exit(1)
	}

	jwtService, err := jwt.NewService(jwt.Config{
		Secret:     []byte(*secret),
		Issuer:     *issuer,
		Expiration: *exp,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nSet JWT_SECRET or pass -secret\n")
		os.Exit(1)
	}

	claims := jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: subject},
	}

	token, err := jwtService.Sign(claims)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"token":      token,
			"token_type": "Bearer",
			"expires_in": int(exp.Seconds()),
			"user_id":    subject,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
		return
	}

	fmt.Println("Admin Token Generated")
	fmt.Println("=====================")
	fmt.Printf("User ID:  %s\n", subject)
	fmt.Printf("Expires:  %s\n", time.Now().Add(*exp).Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("The role is read from the stored user, so the account must be an admin.")
	fmt.Println("Usage:")
	fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:%s/api/v1/users\n", token[:20]+"...", cfg.Server.Port)
}

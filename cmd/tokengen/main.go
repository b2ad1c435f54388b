// Command tokengen mints bearer tokens for local development and manual
// testing against a running API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/config"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/utils/jwt_parse"
)

func main() {
	config.LoadEnv()

	role := flag.String("role", "CUSTOMER", "CUSTOMER, PROVIDER or ADMIN")
	userID := flag.String("user", "", "user id (random when empty)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.ErrorLogger.Fatal("JWT_SECRET is not set")
	}

	r, err := user_models.ParseRole(*role)
	if err != nil {
		logger.ErrorLogger.Fatalf("Invalid role: %v", err)
	}
	id := uuid.New()
	if *userID != "" {
		if id, err = uuid.Parse(*userID); err != nil {
			logger.ErrorLogger.Fatalf("Invalid user id: %v", err)
		}
	}

	p := user_models.Principal{UserID: id, Role: r}
	token, err := jwt_parse.GenerateToken([]byte(secret), p, *ttl)
	if err != nil {
		logger.ErrorLogger.Fatalf("Could not sign token: %v", err)
	}
	fmt.Fprintf(os.Stderr, "%s valid for %s\n", p, *ttl)
	fmt.Println(token)
}

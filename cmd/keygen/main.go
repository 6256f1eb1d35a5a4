package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"schedule-backend/internal/auth"
)

func main() {
	role := flag.String("role", string(auth.RoleAnon), "key role (anon or service)")
	subject := flag.String("subject", "", "who the key is for")
	expiry := flag.Duration("expiry", 0, "key lifetime (0 = no expiry)")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, using environment variables")
	}

	secret := os.Getenv("API_KEY_SECRET")
	if secret == "" {
		log.Fatal("API_KEY_SECRET is not set")
	}

	keys := auth.NewKeyManager(secret, *expiry)
	key, err := keys.Issue(auth.Role(*role), *subject)
	if err != nil {
		log.Fatalf("Failed to issue key: %v", err)
	}

	log.Printf("🔑 Issued %s key for %q", *role, *subject)
	fmt.Println(key)
}

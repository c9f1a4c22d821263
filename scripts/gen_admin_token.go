package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"codeberg.org/knowledgehub/server/internal/auth"
)

// Generates an admin JWT for exercising the /api/v1/admin endpoints.
//
//	go run scripts/gen_admin_token.go [subject]
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	subject := "admin"
	if len(os.Args) > 1 {
		subject = os.Args[1]
	}

	token, err := auth.GenerateJWT(subject, true)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("Admin JWT for %q:\n%s\n\n", subject, token)
	fmt.Printf("Export this token for testing:\nexport ADMIN_TOKEN=\"%s\"\n", token)
}

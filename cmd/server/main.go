package main

import (
	"log"

	"github.com/joho/godotenv"

	"visiondash/internal/app"
)

func main() {
	// Load env vars before anything reads configuration.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	application, err := app.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

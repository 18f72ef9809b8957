package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env into the process environment when the file exists.
// Deployed environments set real variables and ship no .env file.
func LoadEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("load .env: %v", err)
	}
}

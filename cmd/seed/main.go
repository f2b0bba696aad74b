package main

import (
	"log"

	"github.com/ksolovey/unimatch/internal/config"
	"github.com/ksolovey/unimatch/internal/db"
)

func main() {
	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}

	if err := db.SeedTestData(database); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("Seeding complete.")
}

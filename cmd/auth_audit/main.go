package main

import (
	"context"
	"log"
	"os"
	"time"

	"roleauth/internal/database"
	"roleauth/internal/repository"
)

// Reports the state of the refresh token ledger. The ledger never deletes
// rows, so revoked and expired counts only grow; a rising revoked count
// without matching rotations is worth investigating.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ledger := repository.NewRefreshTokenRepository(db)
	stats, err := ledger.Stats(context.Background(), time.Now())
	if err != nil {
		log.Fatalf("ledger stats failed: %v", err)
	}

	log.Printf("refresh_token_ledger active=%d revoked=%d expired=%d rotated=%d",
		stats.Active, stats.Revoked, stats.Expired, stats.Rotated)
}

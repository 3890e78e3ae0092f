// seed inserts a test user and a spread of tasks into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ShivamNishad0/tasktracker/internal/infrastructure/postgres"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "password1"
)

type taskSpec struct {
	title     string
	priority  string
	dueIn     time.Duration
	completed bool
}

var tasks = []taskSpec{
	// Due within the next hour, so reminder candidates on the next sweep
	{"Pay electricity bill", "high", 20 * time.Minute, false},
	{"Call the dentist", "medium", 45 * time.Minute, false},
	{"Water the plants", "low", 55 * time.Minute, false},

	// Due soon but already completed, must never be reminded
	{"Submit expense report", "high", 30 * time.Minute, true},

	// Due later today / this week
	{"Review pull requests", "medium", 5 * time.Hour, false},
	{"Prepare slides", "high", 26 * time.Hour, false},
	{"Book flights", "medium", 72 * time.Hour, false},
	{"Renew gym membership", "low", 7 * 24 * time.Hour, false},

	// Overdue, outside the reminder window by definition
	{"Return library books", "low", -3 * time.Hour, false},
	{"Send birthday card", "medium", -26 * time.Hour, true},
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := postgres.Migrate(dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		"Seed User", seedEmail, string(hash), "+12025550100",
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert user: %v", err)
	}

	now := time.Now()
	for i, t := range tasks {
		_, err := pool.Exec(ctx, `
			INSERT INTO tasks (owner_id, title, description, priority, due_date, completed)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			userID, t.title, fmt.Sprintf("seed task #%d", i+1), t.priority, now.Add(t.dueIn), t.completed,
		)
		if err != nil {
			log.Fatalf("insert task %q: %v", t.title, err)
		}
	}

	fmt.Printf("seeded user %s (%s / %s) with %d tasks\n", userID, seedEmail, seedPassword, len(tasks))
}

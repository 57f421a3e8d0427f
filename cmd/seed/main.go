package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/guardline/backend/config"
	"github.com/guardline/backend/pkg/helpers"
)

// Seeds an approved moderator account for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "moderator@guardline.local"
	password := "changeme123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	id := uuid.NewString()
	var out string
	err = db.QueryRow(`
		INSERT INTO users (id, email, phone, name, password_hash, status, role, chat_uid)
		VALUES ($1, $2, $3, $4, $5, 'approved', 'moderator', $1)
		ON CONFLICT (email) DO UPDATE SET status = 'approved', role = 'moderator'
		RETURNING id
	`, id, email, "+10000000000", "Moderator", hash).Scan(&out)
	if err != nil {
		log.Fatalf("failed to seed moderator: %v", err)
	}
	fmt.Printf("seeded moderator: id=%s email=%s password=%s\n", out, email, password)
}

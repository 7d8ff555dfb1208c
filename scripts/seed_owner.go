package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/khoahotran/portfolio/adapters/persistence"
	"github.com/khoahotran/portfolio/internal/domain/profile"
	"github.com/khoahotran/portfolio/internal/domain/user"
	"github.com/khoahotran/portfolio/pkg/auth"
	"github.com/khoahotran/portfolio/pkg/logger"
)

func main() {
	fmt.Println("adding owner into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	dsn := os.Getenv("DB_DSN")
	ownerEmail := os.Getenv("OWNER_EMAIL")
	ownerPassword := os.Getenv("OWNER_PASSWORD")
	ownerName := os.Getenv("OWNER_NAME")
	if ownerEmail == "" || ownerPassword == "" {
		log.Fatalf("OWNER_EMAIL and OWNER_PASSWORD are required")
	}

	hash, err := auth.HashPassword(ownerPassword)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	owner := &user.User{ID: uuid.New(), Email: ownerEmail, PasswordHash: hash}
	if ownerName != "" {
		owner.Name = &ownerName
	}
	if err := persistence.NewPostgresUserRepo(pool).Upsert(ctx, owner); err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	profiles := persistence.NewPostgresProfileRepo(pool, logger.NewNop())
	existing, err := profiles.GetByUserID(ctx, owner.ID)
	if err != nil {
		log.Fatalf("cannot read profile: %v", err)
	}
	if existing.FullName == "" && ownerName != "" {
		seeded := existing.Apply(profile.Patch{FullName: &ownerName})
		if err := profiles.Upsert(ctx, seeded); err != nil {
			log.Fatalf("cannot seed profile: %v", err)
		}
	}

	fmt.Printf("added or updated owner '%s' successfully!\n", ownerEmail)
	fmt.Printf("set SITE_OWNER_ID=%s\n", owner.ID)
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golfclub/internal/database"
	"golfclub/internal/domain"
	"golfclub/internal/repository"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "golfclub.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	caddies := repository.NewCaddyRepository(db)
	holidays := repository.NewHolidayRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := &domain.User{
		Email:        "admin@greenfield.golf",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Club Admin",
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Println("admin already seeded:", err)
	} else {
		log.Println("Admin created: admin@greenfield.golf / admin123")
	}

	golferEmails := []string{"somchai@gmail.com", "anna@outlook.com", "kenji@yahoo.co.jp"}
	for i, email := range golferEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("golfer123"), bcrypt.DefaultCost)
		g := &domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleGolfer,
			Name:         fmt.Sprintf("Golfer %d", i+1),
			Phone:        fmt.Sprintf("+66 81 234 56%02d", i+10),
		}
		if err := users.Create(ctx, g); err != nil {
			log.Println("golfer already seeded:", email)
		}
	}

	// ================== CADDIES ==================
	log.Println("Creating caddy roster...")

	names := []string{"Malee", "Somsak", "Nok", "Ploy", "Chai", "Fern", "Tun", "Mint", "Bank", "Gift"}
	for i, name := range names {
		status := domain.CaddyAvailable
		if i == len(names)-1 {
			status = domain.CaddyOnLeave
		}
		c := &domain.Caddy{
			ID:     fmt.Sprintf("cd-%03d", i+1),
			Code:   fmt.Sprintf("C%02d", i+1),
			Name:   name,
			Status: status,
		}
		if err := caddies.Upsert(ctx, c); err != nil {
			log.Fatal("seed caddy failed:", err)
		}
	}

	// ================== HOLIDAYS ==================
	log.Println("Creating holiday calendar...")

	entries := []domain.Holiday{
		{Date: "2026-01-01", Name: "New Year's Day"},
		{Date: "2026-04-13", Name: "Songkran"},
		{Date: "2026-04-14", Name: "Songkran"},
		{Date: "2026-04-15", Name: "Songkran"},
		{Date: "2026-05-01", Name: "Labour Day"},
		{Date: "2026-12-05", Name: "Father's Day"},
		{Date: "2026-12-31", Name: "New Year's Eve"},
	}
	for i := range entries {
		if err := holidays.Upsert(ctx, &entries[i]); err != nil {
			log.Fatal("seed holiday failed:", err)
		}
	}

	log.Println("Seed complete.")
}

package main

import (
	"log"
	"os"

	"hotel-backoffice/internal/config"
	"hotel-backoffice/internal/database"
	"hotel-backoffice/internal/models"
	"hotel-backoffice/internal/service"
	"hotel-backoffice/internal/utils"

	"github.com/google/uuid"
)

// Seeds the first admin account. Idempotent: if the email already exists,
// nothing changes.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	adminName := os.Getenv("ADMIN_NAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminName == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_NAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	adminEmail = service.NormalizeEmail(adminEmail)

	var existing models.User
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		log.Println("Admin user already exists:", existing.Name)
		log.Println("   Email:", existing.Email)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		ID:           uuid.New(),
		Name:         adminName,
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Phone:        os.Getenv("ADMIN_PHONE"),
		Address:      os.Getenv("ADMIN_ADDRESS"),
		Department:   "Management",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created successfully!")
	log.Println("   Name:", admin.Name)
	log.Println("   Email:", admin.Email)
}

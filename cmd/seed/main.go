package main

import (
	"log"

	"curamind-be/internal/config"
	"curamind-be/internal/entity"
	"curamind-be/internal/model"
	"curamind-be/pkg/database"

	"github.com/fatih/color"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding admin account...")
	if err := seedAdmin(db, cfg.Admin); err != nil {
		color.Red("Admin seeding failed: %v", err)
	}

	color.Cyan("Seeding notification types...")
	SeedNotificationTypes(db)
}

// seedAdmin creates the admin account once. An existing account is left
// untouched so a changed password survives reseeding.
func seedAdmin(db *gorm.DB, admin config.AdminSeedConfig) error {
	if admin.Password == "" {
		color.Yellow("ADMIN_PASSWORD is not set, skipping admin account")
		return nil
	}

	var existing model.Account
	err := db.Where("email = ?", admin.Email).First(&existing).Error
	if err == nil {
		color.Yellow("Admin %s already exists, skipping", admin.Email)
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account := model.Account{
		Email:        admin.Email,
		PasswordHash: string(hash),
		Role:         string(entity.AccountRoleAdmin),
		IsVerified:   true,
	}
	if err := db.Create(&account).Error; err != nil {
		return err
	}
	color.Green("Created admin account %s", admin.Email)
	return nil
}

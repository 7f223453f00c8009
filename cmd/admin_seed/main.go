// Package main seeds the platform: it creates the admin account and the
// default commission split if they do not exist yet.
package main

import (
	"log"
	"os"

	"vyuha/internal/config"
	"vyuha/internal/models"
	"vyuha/internal/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

var defaultSettings = map[string]string{
	models.SettingOrganizerCommissionPercent: "10",
	models.SettingPlatformCommissionPercent:  "10",
	models.SettingPrizePoolPercent:           "80",
}

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("Failed to get SQL DB instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	seedSettings()
	seedAdmin(adminEmail, adminPassword, adminPhone)
}

// seedSettings inserts the default 10/10/80 commission split. Existing rows
// are left alone so a re-run never overwrites admin-tuned values.
func seedSettings() {
	for key, value := range defaultSettings {
		row := models.PlatformSetting{SettingKey: key, SettingValue: value}
		err := repositories.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoNothing: true,
		}).Create(&row).Error
		if err != nil {
			log.Fatalf("Failed to seed setting %s: %v", key, err)
		}
	}
	log.Println("Default commission settings in place")
}

func seedAdmin(email, password, phone string) {
	var existing models.User
	if err := repositories.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Email:        email,
		Password:     string(hashed),
		Phone:        phone,
		Username:     "admin",
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
		TokenVersion: 1,
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("Admin account created")
}

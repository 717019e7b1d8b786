package database

import (
	"gorm.io/gorm"

	"github.com/avelines/gradeboard/internal/models"
	"github.com/avelines/gradeboard/pkg/crypto"
)

// DefaultAdminUsername is the bootstrap account created on an empty database.
const DefaultAdminUsername = "admin"

// DefaultAdminPassword is only ever written when no user exists yet.
const DefaultAdminPassword = "admin123"

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.CacheEntry{},
	)
}

// SeedData populates the bootstrap admin account and sample students when the
// respective tables are empty.
func SeedData(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	if userCount == 0 {
		hash, err := crypto.HashPassword(DefaultAdminPassword)
		if err != nil {
			return err
		}
		admin := models.User{
			Username: DefaultAdminUsername,
			Password: hash,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
	}

	var studentCount int64
	if err := db.Model(&models.Student{}).Count(&studentCount).Error; err != nil {
		return err
	}

	if studentCount == 0 {
		students := []models.Student{
			{Name: "Alice Dupont", Grade: 15.5},
			{Name: "Bob Martin", Grade: 12.0},
			{Name: "Claire Dubois", Grade: 17.5},
			{Name: "David Leroux", Grade: 14.0},
			{Name: "Emma Petit", Grade: 16.5},
		}
		if err := db.Create(&students).Error; err != nil {
			return err
		}
	}

	return nil
}

package database

import (
	"ripple/internal/models"

	"gorm.io/gorm"
)

// AllModels lists every model to automigrate, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Organization{},
		&models.OrgMembership{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Share{},
	}
}

// Migrate runs schema automigration for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

package initializers

import (
	"fmt"
	"log"

	"github.com/Kariqs/amexan-eats/models"
	"gorm.io/gorm"
)

func SyncDatabase() error {
	if err := Migrate(DB); err != nil {
		return err
	}
	log.Println("Database synced successfully.")
	return nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Category{},
		&models.Food{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

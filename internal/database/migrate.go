package database

import (
	"fmt"
	"log"

	"github.com/makanlah/backend/internal/models"
	"gorm.io/gorm"
)

// RunMigrations brings the schema up to date. Postgres additionally needs
// the pgvector extension for menu item embeddings; sqlite (tests) skips it.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector;").Error; err != nil {
			return fmt.Errorf("failed to install pgvector extension: %w", err)
		}
	} else {
		log.Printf("[Database] Non-postgres dialect %q, skipping pgvector extension", db.Dialector.Name())
	}

	return db.AutoMigrate(
		&models.User{},
		&models.CoinTransaction{},
		&models.Stall{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.GroupSession{},
		&models.GroupCartItem{},
		&models.Voucher{},
		&models.UserVoucher{},
		&models.Notification{},
	)
}

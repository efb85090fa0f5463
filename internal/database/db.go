package database

import (
	"log"

	"club-backend/internal/config"
	"club-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.BasketItem{},
		&models.Order{},
		&models.Shift{},
		&models.ShiftActivity{},
		&models.ShiftReconciliation{},
		&models.Expense{},
		&models.StockMovement{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// "At most one active shift" is enforced by the database, not just
	// by handler code: a partial unique index admits a single row with
	// end_time IS NULL. AutoMigrate cannot express this, so plain SQL.
	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_active ON shifts ((end_time IS NULL)) WHERE end_time IS NULL`,
	).Error; err != nil {
		log.Fatalf("could not create single-active-shift index: %v", err)
	}

	log.Println("database connected, migrations done")
}

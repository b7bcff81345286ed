package database

import (
	"log"

	"dining-backend/internal/config"
	"dining-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.MenuItem{},
		&models.Order{},
		&models.Transaction{},
		&models.CashOut{},
		&models.Reservation{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	if err := SeedTables(DB, cfg.TableCount); err != nil {
		log.Fatalf("Table seeding failed: %v", err)
	}

	log.Println("Database connected, migration complete")
}

// SeedTables ensures dining tables #1..count exist. Tables are only ever added,
// never deleted, so shrinking the count leaves existing rows alone.
func SeedTables(db *gorm.DB, count int) error {
	for id := uint(1); id <= uint(count); id++ {
		table := models.Table{ID: id, Status: models.TableStatusAvailable}
		if err := db.Where(models.Table{ID: id}).FirstOrCreate(&table).Error; err != nil {
			return err
		}
	}
	return nil
}

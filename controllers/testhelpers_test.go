package controllers

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tailorrecords/tailor-records-api/config"
	"github.com/tailorrecords/tailor-records-api/models"
	"github.com/tailorrecords/tailor-records-api/services"
)

// setupTestDB wires an in-memory database and a fresh notifier into the
// global accessors used by the controllers
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Measurement{},
		&models.MeasurementField{},
		&models.Order{},
		&models.ItemType{},
		&models.Customization{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	services.SetNotifier(services.NewNotifier())
	return db
}

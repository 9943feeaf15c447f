package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tailorrecords/tailor-records-api/config"
	"github.com/tailorrecords/tailor-records-api/models"
)

// BackupData is the portable backup document. MeasurementFields are not part
// of the document; the field catalog is rebuilt by hand on a new device.
type BackupData struct {
	Customers    []models.Customer    `json:"customers"`
	Measurements []models.Measurement `json:"measurements"`
	Orders       []models.Order       `json:"orders"`
	BackupDate   time.Time            `json:"backupDate"`
}

// ExportBackup snapshots all customers, measurements and orders into one
// document. Each collection is read once; live subscriptions are not involved.
func ExportBackup() (*BackupData, error) {
	db := config.GetDB()

	var customers []models.Customer
	if err := db.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to export customers: %w", err)
	}

	var measurements []models.Measurement
	if err := db.Order("created_at DESC").Find(&measurements).Error; err != nil {
		return nil, fmt.Errorf("failed to export measurements: %w", err)
	}

	var orders []models.Order
	if err := db.Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to export orders: %w", err)
	}

	return &BackupData{
		Customers:    customers,
		Measurements: measurements,
		Orders:       orders,
		BackupDate:   time.Now(),
	}, nil
}

// ExportFileName returns a timestamped default file name for a backup download
func ExportFileName() string {
	return fmt.Sprintf("tailor_records_backup_%d.json", time.Now().Unix())
}

// ParseBackup decodes a backup document. A document that does not match the
// schema fails here, before anything is written.
func ParseBackup(data []byte) (*BackupData, error) {
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("failed to parse backup document: %w", err)
	}
	return &backup, nil
}

// ImportBackup inserts every record of the document as new rows (additive
// restore, not a merge; importing the same document twice duplicates its
// customers). Document identifiers are discarded: customers receive fresh
// ids, and measurements and orders are remapped onto them so ownership
// survives the reassignment. Records are not validated individually.
func ImportBackup(backup *BackupData) error {
	db := config.GetDB()

	customerIDs := make(map[uint]uint, len(backup.Customers))
	for _, customer := range backup.Customers {
		oldID := customer.ID
		customer.ID = 0
		if err := db.Create(&customer).Error; err != nil {
			return fmt.Errorf("failed to import customer %q: %w", customer.Name, err)
		}
		if oldID != 0 {
			customerIDs[oldID] = customer.ID
		}
	}

	for _, measurement := range backup.Measurements {
		measurement.ID = 0
		if newID, ok := customerIDs[measurement.CustomerID]; ok {
			measurement.CustomerID = newID
		}
		if err := db.Omit("Customer").Create(&measurement).Error; err != nil {
			return fmt.Errorf("failed to import measurement: %w", err)
		}
	}

	for _, order := range backup.Orders {
		order.ID = 0
		if newID, ok := customerIDs[order.CustomerID]; ok {
			order.CustomerID = newID
		}
		order.Customer = models.Customer{}
		if err := db.Omit("Customer").Create(&order).Error; err != nil {
			return fmt.Errorf("failed to import order: %w", err)
		}
	}

	return nil
}

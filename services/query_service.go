package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tailorrecords/tailor-records-api/config"
	"github.com/tailorrecords/tailor-records-api/models"
)

// Query functions compute the snapshots behind both the REST list endpoints
// and the websocket live queries. Each call reads current state once; the
// notifier decides when a snapshot is stale.

// RemainingBalance returns price minus advance for an order. Plain float
// subtraction: a larger advance yields a negative balance, never clamped.
func RemainingBalance(order *models.Order) float64 {
	return order.Price - order.AdvancePaid
}

// WithBalance fills the computed RemainingBalance field on an order
func WithBalance(order *models.Order) *models.Order {
	order.RemainingBalance = RemainingBalance(order)
	return order
}

// OrdersWithCustomers returns every order joined with its customer, newest
// order date first. A non-empty status restricts the result to that status.
func OrdersWithCustomers(status string) ([]models.Order, error) {
	db := config.GetDB()

	query := db.Preload("Customer").Order("order_date DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	for i := range orders {
		WithBalance(&orders[i])
	}
	return orders, nil
}

// OrderWithCustomerByID returns one order joined with its customer
func OrderWithCustomerByID(id uint) (*models.Order, error) {
	db := config.GetDB()

	var order models.Order
	if err := db.Preload("Customer").First(&order, id).Error; err != nil {
		return nil, err
	}
	return WithBalance(&order), nil
}

// OrdersByCustomer returns a customer's orders, newest order date first
func OrdersByCustomer(customerID uint) ([]models.Order, error) {
	db := config.GetDB()

	var orders []models.Order
	err := db.Where("customer_id = ?", customerID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load customer orders: %w", err)
	}
	for i := range orders {
		WithBalance(&orders[i])
	}
	return orders, nil
}

// CustomersMatching returns customers whose name or phone number contains the
// query, case-insensitive, ordered by name. An empty query returns everyone.
func CustomersMatching(query string) ([]models.Customer, error) {
	db := config.GetDB()

	q := db.Order("name ASC")
	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(phone_number) LIKE ?", pattern, pattern)
	}

	var customers []models.Customer
	if err := q.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, nil
}

// MeasurementsByCustomer returns a customer's measurements newest first
func MeasurementsByCustomer(customerID uint) ([]models.Measurement, error) {
	db := config.GetDB()

	var measurements []models.Measurement
	err := db.Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&measurements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load measurements: %w", err)
	}
	return measurements, nil
}

// LatestMeasurement returns the customer's newest measurement, used once to
// prefill a new measurement form. Returns nil when the customer has none.
func LatestMeasurement(customerID uint) (*models.Measurement, error) {
	db := config.GetDB()

	var measurement models.Measurement
	err := db.Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		First(&measurement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load latest measurement: %w", err)
	}
	return &measurement, nil
}

// MeasurementFields returns the full field catalog in display order
func MeasurementFields() ([]models.MeasurementField, error) {
	db := config.GetDB()

	var fields []models.MeasurementField
	err := db.Order("category ASC, display_order ASC, name ASC").Find(&fields).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load measurement fields: %w", err)
	}
	return fields, nil
}

// FindCustomerByPhone returns another customer holding exactly this phone
// number, excluding excludeID (the record being edited). Returns nil when the
// number is free.
func FindCustomerByPhone(phone string, excludeID uint) (*models.Customer, error) {
	db := config.GetDB()

	var customer models.Customer
	q := db.Where("phone_number = ?", phone)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up phone number: %w", err)
	}
	return &customer, nil
}

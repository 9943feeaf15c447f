package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tailorrecords/tailor-records-api/models"
)

func seedCustomer(t *testing.T, db *gorm.DB, name, phone string) models.Customer {
	t.Helper()
	customer := models.Customer{Name: name, PhoneNumber: phone}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func TestRemainingBalance(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		advance  float64
		expected float64
	}{
		{"Partial advance", 500, 200, 300},
		{"No advance", 500, 0, 500},
		{"Fully paid", 500, 500, 0},
		{"Overpaid goes negative", 100, 150, -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &models.Order{Price: tt.price, AdvancePaid: tt.advance}
			assert.Equal(t, tt.expected, RemainingBalance(order))
		})
	}
}

func TestOrdersWithCustomers(t *testing.T) {
	db := setupTestDB(t)
	asha := seedCustomer(t, db, "Asha", "9876543210")
	meera := seedCustomer(t, db, "Meera", "9000000001")

	now := time.Now()
	db.Omit("Customer").Create(&models.Order{
		CustomerID: asha.ID, ItemType: "Shirt", Status: models.StatusPending,
		Price: 500, AdvancePaid: 200, OrderDate: now.Add(-time.Hour),
	})
	db.Omit("Customer").Create(&models.Order{
		CustomerID: meera.ID, ItemType: "Pant", Status: models.StatusCompleted,
		OrderDate: now,
	})

	t.Run("Joined and ordered newest first with balances", func(t *testing.T) {
		orders, err := OrdersWithCustomers("")
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "Pant", orders[0].ItemType)
		assert.Equal(t, "Meera", orders[0].Customer.Name)
		assert.Equal(t, "Asha", orders[1].Customer.Name)
		assert.Equal(t, float64(300), orders[1].RemainingBalance)
	})

	t.Run("Status filter", func(t *testing.T) {
		orders, err := OrdersWithCustomers(models.StatusCompleted)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "Pant", orders[0].ItemType)
	})
}

func TestCustomersMatching(t *testing.T) {
	db := setupTestDB(t)
	seedCustomer(t, db, "Meera", "9000000001")
	seedCustomer(t, db, "Asha", "9876543210")

	t.Run("Empty query lists everyone by name", func(t *testing.T) {
		customers, err := CustomersMatching("")
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, "Asha", customers[0].Name)
		assert.Equal(t, "Meera", customers[1].Name)
	})

	t.Run("Case-insensitive name match", func(t *testing.T) {
		customers, err := CustomersMatching("mEEr")
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "Meera", customers[0].Name)
	})

	t.Run("Phone substring match", func(t *testing.T) {
		customers, err := CustomersMatching("98765")
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "Asha", customers[0].Name)
	})
}

func TestLatestMeasurement(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db, "Asha", "9876543210")

	t.Run("Nil when the customer has none", func(t *testing.T) {
		measurement, err := LatestMeasurement(customer.ID)
		require.NoError(t, err)
		assert.Nil(t, measurement)
	})

	t.Run("Newest wins, id breaks created_at ties", func(t *testing.T) {
		stamp := time.Now()
		first := models.Measurement{CustomerID: customer.ID, Values: models.StringMap{"Chest": "39"}, CreatedAt: stamp}
		second := models.Measurement{CustomerID: customer.ID, Values: models.StringMap{"Chest": "40"}, CreatedAt: stamp}
		require.NoError(t, db.Create(&first).Error)
		require.NoError(t, db.Create(&second).Error)

		measurement, err := LatestMeasurement(customer.ID)
		require.NoError(t, err)
		require.NotNil(t, measurement)
		assert.Equal(t, "40", measurement.Values["Chest"])
	})
}

func TestFindCustomerByPhone(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db, "Asha", "9876543210")

	t.Run("Exact match found", func(t *testing.T) {
		found, err := FindCustomerByPhone("9876543210", 0)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, customer.ID, found.ID)
	})

	t.Run("Own record excluded while editing", func(t *testing.T) {
		found, err := FindCustomerByPhone("9876543210", customer.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Free number", func(t *testing.T) {
		found, err := FindCustomerByPhone("1234567890", 0)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestMeasurementFieldsOrdering(t *testing.T) {
	db := setupTestDB(t)

	db.Create(&models.MeasurementField{Name: "Inseam", Category: "Lower Body", DisplayOrder: 1})
	db.Create(&models.MeasurementField{Name: "Waist", Category: "Lower Body", DisplayOrder: 0})
	db.Create(&models.MeasurementField{Name: "Chest", Category: "Upper Body", DisplayOrder: 0})

	fields, err := MeasurementFields()
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, "Waist", fields[0].Name)
	assert.Equal(t, "Inseam", fields[1].Name)
	assert.Equal(t, "Chest", fields[2].Name)
}

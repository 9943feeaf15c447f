package models

import (
	"time"
)

// Measurement represents one set of body measurements recorded for a customer.
// Values maps measurement field names (from the MeasurementField catalog) to
// recorded values. A value whose field has since been deleted from the catalog
// stays in the map as an orphaned entry.
type Measurement struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Customer   Customer  `gorm:"foreignKey:CustomerID" json:"-"`
	Values     StringMap `gorm:"type:text" json:"values"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Measurement model
func (Measurement) TableName() string {
	return "measurements"
}

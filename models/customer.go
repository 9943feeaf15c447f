package models

import (
	"time"
)

// Customer represents a tailoring customer in the system
type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	PhoneNumber string    `gorm:"not null;index" json:"phone_number"` // soft-unique: duplicates detected at the application layer
	PhotoURI    string    `json:"photo_uri"`                          // key/path of the customer's photo in storage
	PhotoURL    string    `gorm:"-" json:"photo_url,omitempty"`       // computed field, resolved URL for the photo
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

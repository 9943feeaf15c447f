package models

import (
	"time"
)

// Order status values. There is no enforced transition graph: any status is
// reachable from any other via explicit user action.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusDelivered  = "DELIVERED"
	StatusCancelled  = "CANCELLED"
)

// ValidStatuses lists every accepted order status
var ValidStatuses = []string{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusDelivered,
	StatusCancelled,
}

// IsValidStatus reports whether s is one of the known order statuses
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsCompletedStatus reports whether s counts as a completed-class status,
// which triggers completedDate stamping.
func IsCompletedStatus(s string) bool {
	return s == StatusCompleted || s == StatusDelivered
}

// Order represents a garment order placed by a customer
type Order struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	CustomerID       uint        `gorm:"not null;index" json:"customer_id"`
	Customer         Customer    `gorm:"foreignKey:CustomerID" json:"customer"`
	OrderNumber      string      `json:"order_number"` // human-assigned label, not unique
	ItemType         string      `gorm:"not null" json:"item_type"`
	Quantity         int         `gorm:"not null;default:1" json:"quantity"`
	Customizations   StringSlice `gorm:"type:text" json:"customizations"`
	Price            float64     `gorm:"not null;default:0" json:"price"`
	AdvancePaid      float64     `gorm:"not null;default:0" json:"advance_paid"`
	RemainingBalance float64     `gorm:"-" json:"remaining_balance"` // computed field, price - advance_paid
	Status           string      `gorm:"not null;default:'PENDING'" json:"status"`
	OrderDate        time.Time   `json:"order_date"`
	DueDate          time.Time   `json:"due_date"`
	CompletedDate    *time.Time  `json:"completed_date"` // set once on transition into COMPLETED/DELIVERED
	Notes            string      `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

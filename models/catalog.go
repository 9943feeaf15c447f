package models

// ItemType is one entry of the global, user-extensible catalog of garment
// types offered on the order form. Default types are seeded at startup and
// custom types are added when an order is saved with an unknown type.
type ItemType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name for the ItemType model
func (ItemType) TableName() string {
	return "item_types"
}

// Customization is one entry of the per-item-type catalog of customization
// labels. ItemType keys are stored lower-cased.
type Customization struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ItemType string `gorm:"not null;index:idx_customizations_type_label,unique" json:"item_type"`
	Label    string `gorm:"not null;index:idx_customizations_type_label,unique" json:"label"`
}

// TableName specifies the table name for the Customization model
func (Customization) TableName() string {
	return "customizations"
}

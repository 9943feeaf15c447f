package models

// MeasurementField is one entry of the global catalog of fields shown on
// measurement forms, grouped into categories like "Upper Body" / "Lower Body".
type MeasurementField struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Category     string `gorm:"not null;index" json:"category"`
	DisplayOrder int    `gorm:"not null;default:0" json:"display_order"`
}

// TableName specifies the table name for the MeasurementField model
func (MeasurementField) TableName() string {
	return "measurement_fields"
}

package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/tailorrecords/tailor-records-api/config"
	"github.com/tailorrecords/tailor-records-api/models"
)

// ItemTypeOther is the sentinel choice that lets the user type a free-text
// item type; it is always listed last and never stored as a custom type.
const ItemTypeOther = "Other"

// DefaultItemTypes are always available and never persisted as custom entries
var DefaultItemTypes = []string{"Shirt", "Pant"}

// ItemTypes returns the item-type catalog: defaults plus custom entries
// sorted by name, with "Other" pinned last.
func ItemTypes() ([]string, error) {
	db := config.GetDB()

	var custom []models.ItemType
	if err := db.Find(&custom).Error; err != nil {
		return nil, fmt.Errorf("failed to load item types: %w", err)
	}

	seen := make(map[string]bool)
	types := make([]string, 0, len(DefaultItemTypes)+len(custom)+1)
	for _, t := range DefaultItemTypes {
		seen[t] = true
		types = append(types, t)
	}
	for _, t := range custom {
		if !seen[t.Name] {
			seen[t.Name] = true
			types = append(types, t.Name)
		}
	}
	sort.Strings(types)
	return append(types, ItemTypeOther), nil
}

// AddItemType persists a custom item type. Blank input, defaults and "Other"
// are ignored; duplicates are set semantics, not an error.
func AddItemType(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || name == ItemTypeOther {
		return nil
	}
	for _, t := range DefaultItemTypes {
		if t == name {
			return nil
		}
	}

	db := config.GetDB()
	var existing models.ItemType
	err := db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check item type: %w", err)
	}

	if err := db.Create(&models.ItemType{Name: name}).Error; err != nil {
		return fmt.Errorf("failed to save item type: %w", err)
	}
	return nil
}

// IsKnownItemType reports whether name is a default or already-persisted type
func IsKnownItemType(name string) (bool, error) {
	if name == ItemTypeOther {
		return true, nil
	}
	for _, t := range DefaultItemTypes {
		if t == name {
			return true, nil
		}
	}

	db := config.GetDB()
	var existing models.ItemType
	err := db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check item type: %w", err)
}

// Customizations returns the customization labels recorded for an item type.
// Item types are keyed lower-cased so "Shirt" and "shirt" share a catalog.
func Customizations(itemType string) ([]string, error) {
	db := config.GetDB()

	var entries []models.Customization
	err := db.Where("item_type = ?", strings.ToLower(itemType)).
		Order("label ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load customizations: %w", err)
	}

	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, e.Label)
	}
	return labels, nil
}

// AddCustomization records a customization label for an item type with set
// semantics: adding an existing label is a no-op.
func AddCustomization(itemType, label string) error {
	label = strings.TrimSpace(label)
	if itemType == "" || label == "" {
		return nil
	}
	key := strings.ToLower(itemType)

	db := config.GetDB()
	var existing models.Customization
	err := db.Where("item_type = ? AND label = ?", key, label).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check customization: %w", err)
	}

	if err := db.Create(&models.Customization{ItemType: key, Label: label}).Error; err != nil {
		return fmt.Errorf("failed to save customization: %w", err)
	}
	return nil
}

// RemoveCustomization deletes a customization label from an item type's catalog
func RemoveCustomization(itemType, label string) error {
	db := config.GetDB()
	err := db.Where("item_type = ? AND label = ?", strings.ToLower(itemType), label).
		Delete(&models.Customization{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove customization: %w", err)
	}
	return nil
}

// RecordOrderCatalogs persists catalog entries learned from a successfully
// saved order: an unknown item type becomes a custom type, and each
// customization label joins the item type's catalog.
func RecordOrderCatalogs(order *models.Order) error {
	known, err := IsKnownItemType(order.ItemType)
	if err != nil {
		return err
	}
	if !known {
		if err := AddItemType(order.ItemType); err != nil {
			return err
		}
	}
	for _, label := range order.Customizations {
		if err := AddCustomization(order.ItemType, label); err != nil {
			return err
		}
	}
	return nil
}

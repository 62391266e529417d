// File: entities/catalog.go
package entities

import (
	"github.com/google/uuid"
)

// Tag and Ingredient are immutable reference data recipes compose but do not own.

type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug string    `gorm:"uniqueIndex;not null" json:"slug"`
}

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"uniqueIndex;not null" json:"name"`
	MeasurementUnit string    `gorm:"not null" json:"measurement_unit"`
}

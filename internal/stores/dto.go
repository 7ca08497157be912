package stores

import (
	"strings"
	"time"

	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/enums"
	"github.com/angelmondragon/retail-admin-backend/pkg/types"
)

// StoreDTO is the API view of a store.
type StoreDTO struct {
	ID        uint      `json:"id"`
	StoreID   string    `json:"store_id"`
	Name      string    `json:"name"`
	Region    *string   `json:"region"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStoreInput holds creation-time data for a new store.
type CreateStoreInput struct {
	StoreID  string  `json:"store_id" validate:"required,max=64"`
	Name     string  `json:"name" validate:"required,max=128"`
	Region   *string `json:"region" validate:"omitempty,max=64"`
	Timezone string  `json:"timezone" validate:"omitempty,max=64"`
}

// UpdateStoreInput captures the mutable store fields. Nil/invalid fields are left alone.
type UpdateStoreInput struct {
	Name     *string              `json:"name" validate:"omitempty,min=1,max=128"`
	Region   types.NullableString `json:"region"`
	Timezone *string              `json:"timezone" validate:"omitempty,min=1,max=64"`
}

// ToModel builds the row to insert, applying the default timezone.
func (in CreateStoreInput) ToModel() *models.Store {
	return &models.Store{
		StoreID:  strings.TrimSpace(in.StoreID),
		Name:     strings.TrimSpace(in.Name),
		Region:   in.Region,
		Timezone: enums.OrDefault(in.Timezone, enums.DefaultTimezone),
	}
}

// Apply merges the supplied fields into m.
func (in UpdateStoreInput) Apply(m *models.Store) {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Region.Valid {
		m.Region = in.Region.Value
	}
	if in.Timezone != nil {
		m.Timezone = strings.TrimSpace(*in.Timezone)
	}
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:        m.ID,
		StoreID:   m.StoreID,
		Name:      m.Name,
		Region:    m.Region,
		Timezone:  m.Timezone,
		CreatedAt: m.CreatedAt,
	}
}

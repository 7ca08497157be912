package models

import "time"

// Store is a physical or virtual selling location keyed by its business id.
type Store struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID   string    `gorm:"column:store_id;not null;uniqueIndex"`
	Name      string    `gorm:"column:name;not null"`
	Region    *string   `gorm:"column:region;index"`
	Timezone  string    `gorm:"column:timezone;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

package models

import "time"

// Member is a loyalty customer.
type Member struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement"`
	MemberID      string    `gorm:"column:member_id;not null;uniqueIndex"`
	Phone         *string   `gorm:"column:phone;index"`
	Tier          string    `gorm:"column:tier;not null"`
	Tags          string    `gorm:"column:tags;not null"`
	IsBlacklisted bool      `gorm:"column:is_blacklisted;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

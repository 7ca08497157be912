package models

import "time"

// Promotion is a marketing rule with an opaque payload.
type Promotion struct {
	ID              uint       `gorm:"column:id;primaryKey;autoIncrement"`
	PromotionID     string     `gorm:"column:promotion_id;not null;uniqueIndex"`
	Name            string     `gorm:"column:name;not null"`
	PromotionType   string     `gorm:"column:promotion_type;not null;index"`
	StoreScope      *string    `gorm:"column:store_scope"`
	MemberTierScope *string    `gorm:"column:member_tier_scope"`
	StartsAt        time.Time  `gorm:"column:starts_at;not null"`
	EndsAt          *time.Time `gorm:"column:ends_at"`
	Payload         string     `gorm:"column:payload;not null"`
}

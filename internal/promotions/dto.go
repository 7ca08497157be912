package promotions

import (
	"strings"
	"time"

	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/enums"
	"github.com/angelmondragon/retail-admin-backend/pkg/types"
)

// PromotionDTO is the API view of a promotion.
type PromotionDTO struct {
	ID              uint       `json:"id"`
	PromotionID     string     `json:"promotion_id"`
	Name            string     `json:"name"`
	PromotionType   string     `json:"promotion_type"`
	StoreScope      *string    `json:"store_scope"`
	MemberTierScope *string    `json:"member_tier_scope"`
	StartsAt        time.Time  `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	Payload         string     `json:"payload"`
}

// CreatePromotionInput holds creation-time promotion data.
type CreatePromotionInput struct {
	PromotionID     string     `json:"promotion_id" validate:"required,max=64"`
	Name            string     `json:"name" validate:"required,max=128"`
	PromotionType   string     `json:"promotion_type" validate:"required,max=32"`
	StoreScope      *string    `json:"store_scope"`
	MemberTierScope *string    `json:"member_tier_scope"`
	StartsAt        *time.Time `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	Payload         string     `json:"payload"`
}

// UpdatePromotionInput is a partial promotion patch. Scope fields and ends_at
// accept an explicit null to clear them.
type UpdatePromotionInput struct {
	Name            *string              `json:"name" validate:"omitempty,min=1,max=128"`
	PromotionType   *string              `json:"promotion_type" validate:"omitempty,min=1,max=32"`
	StoreScope      types.NullableString `json:"store_scope"`
	MemberTierScope types.NullableString `json:"member_tier_scope"`
	StartsAt        types.NullableTime   `json:"starts_at"`
	EndsAt          types.NullableTime   `json:"ends_at"`
	Payload         *string              `json:"payload"`
}

func (in CreatePromotionInput) toModel(now time.Time) *models.Promotion {
	startsAt := now
	if in.StartsAt != nil && !in.StartsAt.IsZero() {
		startsAt = in.StartsAt.UTC()
	}
	payload := in.Payload
	if strings.TrimSpace(payload) == "" {
		payload = enums.EmptyJSONObject
	}
	return &models.Promotion{
		PromotionID:     strings.TrimSpace(in.PromotionID),
		Name:            strings.TrimSpace(in.Name),
		PromotionType:   strings.TrimSpace(in.PromotionType),
		StoreScope:      in.StoreScope,
		MemberTierScope: in.MemberTierScope,
		StartsAt:        startsAt,
		EndsAt:          utcPtr(in.EndsAt),
		Payload:         payload,
	}
}

// apply merges the supplied fields into m. A starts_at patched to null or
// zero is backfilled with now.
func (in UpdatePromotionInput) apply(m *models.Promotion, now time.Time) {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.PromotionType != nil {
		m.PromotionType = strings.TrimSpace(*in.PromotionType)
	}
	if in.StoreScope.Valid {
		m.StoreScope = in.StoreScope.Value
	}
	if in.MemberTierScope.Valid {
		m.MemberTierScope = in.MemberTierScope.Value
	}
	if in.StartsAt.Valid {
		if in.StartsAt.Value == nil || in.StartsAt.Value.IsZero() {
			m.StartsAt = now
		} else {
			m.StartsAt = in.StartsAt.Value.UTC()
		}
	}
	if in.EndsAt.Valid {
		m.EndsAt = utcPtr(in.EndsAt.Value)
	}
	if in.Payload != nil {
		m.Payload = *in.Payload
	}
}

// FromModel maps the persisted promotion into a DTO.
func FromModel(m *models.Promotion) *PromotionDTO {
	if m == nil {
		return nil
	}
	return &PromotionDTO{
		ID:              m.ID,
		PromotionID:     m.PromotionID,
		Name:            m.Name,
		PromotionType:   m.PromotionType,
		StoreScope:      m.StoreScope,
		MemberTierScope: m.MemberTierScope,
		StartsAt:        m.StartsAt,
		EndsAt:          m.EndsAt,
		Payload:         m.Payload,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

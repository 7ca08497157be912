package members

import (
	"strings"
	"time"

	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	"github.com/angelmondragon/retail-admin-backend/pkg/enums"
	"github.com/angelmondragon/retail-admin-backend/pkg/types"
)

// MemberDTO is the API view of a member.
type MemberDTO struct {
	ID            uint      `json:"id"`
	MemberID      string    `json:"member_id"`
	Phone         *string   `json:"phone"`
	Tier          string    `json:"tier"`
	Tags          string    `json:"tags"`
	IsBlacklisted bool      `json:"is_blacklisted"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateMemberInput holds creation-time member data.
type CreateMemberInput struct {
	MemberID      string  `json:"member_id" validate:"required,max=64"`
	Phone         *string `json:"phone" validate:"omitempty,max=32"`
	Tier          string  `json:"tier" validate:"omitempty,max=32"`
	Tags          string  `json:"tags"`
	IsBlacklisted bool    `json:"is_blacklisted"`
}

// UpdateMemberInput is a partial member patch.
type UpdateMemberInput struct {
	Phone         types.NullableString `json:"phone"`
	Tier          *string              `json:"tier" validate:"omitempty,min=1,max=32"`
	Tags          *string              `json:"tags"`
	IsBlacklisted *bool                `json:"is_blacklisted"`
}

// ToModel builds the row to insert, applying tier and tag defaults.
func (in CreateMemberInput) ToModel() *models.Member {
	tags := in.Tags
	if strings.TrimSpace(tags) == "" {
		tags = enums.EmptyJSONObject
	}
	return &models.Member{
		MemberID:      strings.TrimSpace(in.MemberID),
		Phone:         in.Phone,
		Tier:          enums.OrDefault(in.Tier, enums.MemberTierStandard),
		Tags:          tags,
		IsBlacklisted: in.IsBlacklisted,
	}
}

// Apply merges the supplied fields into m.
func (in UpdateMemberInput) Apply(m *models.Member) {
	if in.Phone.Valid {
		m.Phone = in.Phone.Value
	}
	if in.Tier != nil {
		m.Tier = strings.TrimSpace(*in.Tier)
	}
	if in.Tags != nil {
		m.Tags = *in.Tags
	}
	if in.IsBlacklisted != nil {
		m.IsBlacklisted = *in.IsBlacklisted
	}
}

// FromModel maps the persisted member into a DTO.
func FromModel(m *models.Member) *MemberDTO {
	if m == nil {
		return nil
	}
	return &MemberDTO{
		ID:            m.ID,
		MemberID:      m.MemberID,
		Phone:         m.Phone,
		Tier:          m.Tier,
		Tags:          m.Tags,
		IsBlacklisted: m.IsBlacklisted,
		CreatedAt:     m.CreatedAt,
	}
}

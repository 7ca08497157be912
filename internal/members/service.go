package members

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/retail-admin-backend/pkg/db"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

type memberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	FindByMemberID(ctx context.Context, memberID string) (*models.Member, error)
	List(ctx context.Context, p pagination.Params) ([]models.Member, error)
	Update(ctx context.Context, member *models.Member) error
}

// Service exposes member operations.
type Service interface {
	Create(ctx context.Context, input CreateMemberInput) (*MemberDTO, error)
	Get(ctx context.Context, memberID string) (*MemberDTO, error)
	List(ctx context.Context, p pagination.Params) ([]MemberDTO, error)
	Update(ctx context.Context, memberID string, input UpdateMemberInput) (*MemberDTO, error)
}

type service struct {
	repo memberRepository
}

// NewService builds a member service.
func NewService(repo memberRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("member repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateMemberInput) (*MemberDTO, error) {
	member := input.ToModel()
	if member.MemberID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member_id is required")
	}
	if err := s.repo.Create(ctx, member); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "member already exists").
				WithDetails(map[string]any{"member_id": member.MemberID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create member")
	}
	return FromModel(member), nil
}

func (s *service) Get(ctx context.Context, memberID string) (*MemberDTO, error) {
	member, err := s.find(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return FromModel(member), nil
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]MemberDTO, error) {
	rows, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	out := make([]MemberDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, memberID string, input UpdateMemberInput) (*MemberDTO, error) {
	member, err := s.find(ctx, memberID)
	if err != nil {
		return nil, err
	}
	input.Apply(member)
	if member.Tier == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier cannot be blank")
	}
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member")
	}
	return FromModel(member), nil
}

func (s *service) find(ctx context.Context, memberID string) (*models.Member, error) {
	member, err := s.repo.FindByMemberID(ctx, strings.TrimSpace(memberID))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}
	return member, nil
}

package promotions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/retail-admin-backend/pkg/db"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

type promotionRepository interface {
	Create(ctx context.Context, promotion *models.Promotion) error
	FindByPromotionID(ctx context.Context, promotionID string) (*models.Promotion, error)
	List(ctx context.Context, p pagination.Params) ([]models.Promotion, error)
	Update(ctx context.Context, promotion *models.Promotion) error
}

// Service exposes promotion operations.
type Service interface {
	Create(ctx context.Context, input CreatePromotionInput) (*PromotionDTO, error)
	Get(ctx context.Context, promotionID string) (*PromotionDTO, error)
	List(ctx context.Context, p pagination.Params) ([]PromotionDTO, error)
	Update(ctx context.Context, promotionID string, input UpdatePromotionInput) (*PromotionDTO, error)
}

type service struct {
	repo promotionRepository
	now  func() time.Time
}

// NewService builds a promotion service.
func NewService(repo promotionRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, input CreatePromotionInput) (*PromotionDTO, error) {
	promotion := input.toModel(s.now())
	if err := validate(promotion); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, promotion); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "promotion already exists").
				WithDetails(map[string]any{"promotion_id": promotion.PromotionID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
	}
	return FromModel(promotion), nil
}

func (s *service) Get(ctx context.Context, promotionID string) (*PromotionDTO, error) {
	promotion, err := s.find(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	return FromModel(promotion), nil
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]PromotionDTO, error) {
	rows, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
	}
	out := make([]PromotionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, promotionID string, input UpdatePromotionInput) (*PromotionDTO, error) {
	promotion, err := s.find(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	input.apply(promotion, s.now())
	if promotion.StartsAt.IsZero() {
		promotion.StartsAt = s.now()
	}
	if err := validate(promotion); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, promotion); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update promotion")
	}
	return FromModel(promotion), nil
}

func (s *service) find(ctx context.Context, promotionID string) (*models.Promotion, error) {
	promotion, err := s.repo.FindByPromotionID(ctx, strings.TrimSpace(promotionID))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}
	return promotion, nil
}

func validate(p *models.Promotion) error {
	details := map[string]string{}
	if p.PromotionID == "" {
		details["promotion_id"] = "required"
	}
	if p.Name == "" {
		details["name"] = "required"
	}
	if p.PromotionType == "" {
		details["promotion_type"] = "required"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid promotion").WithDetails(details)
	}
	return nil
}

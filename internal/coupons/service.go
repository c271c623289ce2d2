package coupons

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	"github.com/sarthakjns/bazaario-backend/pkg/enums"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

// CreateInput is the admin payload for a new coupon. Value is a percentage
// for percent coupons and a paise amount for flat coupons.
type CreateInput struct {
	Code          string     `json:"code" validate:"required,max=40,alphanum"`
	Type          string     `json:"type" validate:"required"`
	Value         int        `json:"value" validate:"required,gt=0"`
	MinOrderPaise int        `json:"minOrderPaise" validate:"gte=0"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	Active        *bool      `json:"active"`
}

// UpdateInput edits an existing coupon. The code itself is immutable.
type UpdateInput struct {
	Value         int        `json:"value" validate:"required,gt=0"`
	MinOrderPaise int        `json:"minOrderPaise" validate:"gte=0"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	Active        *bool      `json:"active"`
}

// Applied is the outcome of applying a coupon to an order subtotal.
type Applied struct {
	Code          string `json:"code"`
	DiscountPaise int    `json:"discountPaise"`
}

// Service manages coupons and computes discounts at checkout.
type Service interface {
	List(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, input CreateInput) (*models.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Apply(ctx context.Context, code string, subtotalPaise int) (*Applied, error)
}

type service struct {
	repo Repository
	now  func() time.Time
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) Service {
	return &service{repo: repo, now: time.Now, logg: logg}
}

func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list coupons")
	}
	return coupons, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Coupon, error) {
	couponType, err := enums.ParseCouponType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be percent or flat")
	}
	if couponType == enums.CouponTypePercent && input.Value > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percent value cannot exceed 100")
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if existing, err := s.repo.FindByCode(ctx, code); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
	}

	coupon := &models.Coupon{
		Code:          code,
		Type:          couponType,
		Value:         input.Value,
		MinOrderPaise: input.MinOrderPaise,
		ExpiresAt:     input.ExpiresAt,
		Active:        true,
	}
	if input.Active != nil {
		coupon.Active = *input.Active
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create coupon")
	}

	ctx = s.logg.WithField(ctx, "coupon", coupon.Code)
	s.logg.Info(ctx, "coupon created")
	return coupon, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load coupon")
	}
	if coupon.Type == enums.CouponTypePercent && input.Value > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percent value cannot exceed 100")
	}

	coupon.Value = input.Value
	coupon.MinOrderPaise = input.MinOrderPaise
	coupon.ExpiresAt = input.ExpiresAt
	if input.Active != nil {
		coupon.Active = *input.Active
	}

	if err := s.repo.Save(ctx, coupon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save coupon")
	}
	return coupon, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete coupon")
	}
	return nil
}

// Apply validates the code against the subtotal and returns the discount.
// The discount never exceeds the subtotal.
func (s *service) Apply(ctx context.Context, code string, subtotalPaise int) (*Applied, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid coupon code")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load coupon")
	}

	if !coupon.Active {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon is no longer active")
	}
	if coupon.ExpiresAt != nil && !coupon.ExpiresAt.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon has expired")
	}
	if subtotalPaise < coupon.MinOrderPaise {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order subtotal is below the coupon minimum")
	}

	var discount int
	switch coupon.Type {
	case enums.CouponTypePercent:
		discount = subtotalPaise * coupon.Value / 100
	case enums.CouponTypeFlat:
		discount = coupon.Value
	}
	if discount > subtotalPaise {
		discount = subtotalPaise
	}

	return &Applied{Code: coupon.Code, DiscountPaise: discount}, nil
}

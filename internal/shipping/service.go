package shipping

import (
	"context"
	"errors"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

// UpdateInput replaces the delivery pricing rule.
type UpdateInput struct {
	FlatRatePaise  int `json:"flatRatePaise" validate:"gte=0"`
	FreeAbovePaise int `json:"freeAbovePaise" validate:"gte=0"`
}

// Service computes delivery charges and lets admins edit the rule.
type Service interface {
	Rule(ctx context.Context) (*models.ShippingRule, error)
	Update(ctx context.Context, input UpdateInput) (*models.ShippingRule, error)
	ChargeFor(ctx context.Context, payableSubtotalPaise int) (int, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

func (s *service) Rule(ctx context.Context) (*models.ShippingRule, error) {
	rule, err := s.repo.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		// No rule configured yet reads as free shipping.
		return &models.ShippingRule{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipping rule")
	}
	return rule, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.ShippingRule, error) {
	rule, err := s.repo.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		rule = &models.ShippingRule{}
	} else if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipping rule")
	}

	rule.FlatRatePaise = input.FlatRatePaise
	rule.FreeAbovePaise = input.FreeAbovePaise
	if err := s.repo.Save(ctx, rule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save shipping rule")
	}

	s.logg.Info(ctx, "shipping rule updated")
	return rule, nil
}

// ChargeFor returns the delivery charge for an order whose payable subtotal
// is the given paise amount. A positive free-above threshold waives the
// charge once the subtotal reaches it.
func (s *service) ChargeFor(ctx context.Context, payableSubtotalPaise int) (int, error) {
	rule, err := s.Rule(ctx)
	if err != nil {
		return 0, err
	}
	if rule.FreeAbovePaise > 0 && payableSubtotalPaise >= rule.FreeAbovePaise {
		return 0, nil
	}
	return rule.FlatRatePaise, nil
}
